package questionbank_test

import (
	"testing"

	"github.com/prepdeck/prepdeck/internal/questionbank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_TakeConsumesInOrder(t *testing.T) {
	cache := questionbank.NewCache()
	cache.Put(2, []questionbank.Item{{ID: "a"}, {ID: "b"}})

	first := cache.Take(2, nil)
	require.NotNil(t, first)
	assert.Equal(t, "a", first.ID)

	second := cache.Take(2, nil)
	require.NotNil(t, second)
	assert.Equal(t, "b", second.ID)

	assert.Nil(t, cache.Take(2, nil))
}

func TestCache_TakeSkipsExcluded(t *testing.T) {
	cache := questionbank.NewCache()
	cache.Put(1, []questionbank.Item{{ID: "a"}, {ID: "b"}})

	item := cache.Take(1, map[string]bool{"a": true})
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID)
	assert.Equal(t, 1, cache.Size(1), "excluded item stays cached")
}

func TestCache_DifficultiesAreIndependent(t *testing.T) {
	cache := questionbank.NewCache()
	cache.Put(1, []questionbank.Item{{ID: "easy"}})
	cache.Put(3, []questionbank.Item{{ID: "hard"}})

	assert.Nil(t, cache.Take(2, nil))
	item := cache.Take(3, nil)
	require.NotNil(t, item)
	assert.Equal(t, "hard", item.ID)
	assert.Equal(t, 1, cache.Size(1))
}
