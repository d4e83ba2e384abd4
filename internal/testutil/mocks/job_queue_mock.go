package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueuePrefetch(sessionID string, difficulty, count int) error {
	args := m.Called(sessionID, difficulty, count)
	return args.Error(0)
}
