package questionbank

import "sync"

// Cache holds prefetched items keyed by difficulty so the next-item path can
// usually avoid a synchronous round trip to the bank. Entries are consumed
// once; stale or excluded items are skipped at take time.
type Cache struct {
	mu    sync.Mutex
	items map[int][]Item
}

func NewCache() *Cache {
	return &Cache{items: make(map[int][]Item)}
}

// Put appends prefetched items for a difficulty.
func (c *Cache) Put(difficulty int, items []Item) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[difficulty] = append(c.items[difficulty], items...)
}

// Take removes and returns the first cached item at the difficulty whose ID is
// not in exclude. It returns nil when the cache has nothing usable.
func (c *Cache) Take(difficulty int, exclude map[string]bool) *Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.items[difficulty]
	for i, item := range queue {
		if exclude[item.ID] {
			continue
		}
		c.items[difficulty] = append(queue[:i:i], queue[i+1:]...)
		return &item
	}
	// Everything cached at this difficulty is excluded; leave it for other sessions.
	return nil
}

// Size returns the number of cached items at a difficulty.
func (c *Cache) Size(difficulty int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items[difficulty])
}
