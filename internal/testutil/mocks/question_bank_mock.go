package mocks

import (
	"context"

	"github.com/prepdeck/prepdeck/internal/questionbank"
	"github.com/stretchr/testify/mock"
)

// MockQuestionBank is a mock implementation of questionbank.ClientInterface
type MockQuestionBank struct {
	mock.Mock
}

func (m *MockQuestionBank) FetchItem(ctx context.Context, difficulty int, excludeIDs []string) (*questionbank.Item, error) {
	args := m.Called(ctx, difficulty, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*questionbank.Item), args.Error(1)
}

func (m *MockQuestionBank) FetchBatch(ctx context.Context, difficulty, count int) ([]questionbank.Item, error) {
	args := m.Called(ctx, difficulty, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]questionbank.Item), args.Error(1)
}
