package mocks

import (
	"context"
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, learnerID, itemID string) (*models.ReviewCard, error) {
	args := m.Called(ctx, learnerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewCard), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.ReviewCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Update(ctx context.Context, card models.ReviewCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) DueCards(ctx context.Context, learnerID string, asOf time.Time, limit int) ([]models.ReviewCard, error) {
	args := m.Called(ctx, learnerID, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewCard), args.Error(1)
}

func (m *MockCardRepository) ListByLearner(ctx context.Context, learnerID string) ([]models.ReviewCard, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewCard), args.Error(1)
}

func (m *MockCardRepository) InsertReviewHistory(ctx context.Context, learnerID, itemID string, quality int, timeSeconds float64) error {
	args := m.Called(ctx, learnerID, itemID, quality, timeSeconds)
	return args.Error(0)
}
