package mocks

import (
	"context"

	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, session models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, sessionID string) (*models.ExamSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockSessionRepository) ListByLearner(ctx context.Context, filter models.SessionFilter) ([]models.ExamSession, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExamSession), args.Error(1)
}

func (m *MockSessionRepository) InsertAnswer(ctx context.Context, answer models.ExamAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockSessionRepository) AnsweredItemIDs(ctx context.Context, sessionID string) ([]string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
