package services_test

import (
	"context"
	"testing"

	"github.com/prepdeck/prepdeck/internal/clock"
	apperrors "github.com/prepdeck/prepdeck/internal/errors"
	"github.com/prepdeck/prepdeck/internal/exam"
	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/questionbank"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/prepdeck/prepdeck/internal/services"
	"github.com/prepdeck/prepdeck/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type examFixture struct {
	sessions *mocks.MockSessionRepository
	bank     *mocks.MockQuestionBank
	cache    *questionbank.Cache
	queue    *mocks.MockJobQueue
	svc      services.ExamService
}

func newExamFixture() *examFixture {
	f := &examFixture{
		sessions: new(mocks.MockSessionRepository),
		bank:     new(mocks.MockQuestionBank),
		cache:    questionbank.NewCache(),
		queue:    new(mocks.MockJobQueue),
	}
	f.svc = services.NewExamService(f.sessions, f.bank, f.cache, f.queue, clock.Fixed{T: testNow})
	return f
}

func activeSession(mode string, answered, correct, difficulty int) *models.ExamSession {
	mastery := 0.5
	if answered > 0 {
		mastery = float64(correct) / float64(answered)
	}
	return &models.ExamSession{
		ID:                "session-1",
		LearnerID:         "learner-1",
		Mode:              mode,
		AnsweredCount:     answered,
		CorrectCount:      correct,
		CurrentDifficulty: difficulty,
		MasteryEstimate:   mastery,
		Status:            models.StatusActive,
		StartedAt:         testNow,
	}
}

func TestStartSession_Adaptive(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.queue.On("EnqueuePrefetch", mock.Anything, 2, mock.Anything).Return(nil)

	session, err := f.svc.StartSession(context.Background(), "learner-1", models.ModeAdaptive, "", 0)

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.StatusActive, session.Status)
	assert.Equal(t, 2, session.CurrentDifficulty)
	assert.InDelta(t, 0.5, session.MasteryEstimate, 1e-9)
	assert.Equal(t, exam.AdaptiveInitialPool, session.QuestionPoolSize)
	assert.Equal(t, testNow, session.StartedAt)
	f.sessions.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestStartSession_HintAndStandardPool(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.queue.On("EnqueuePrefetch", mock.Anything, 3, mock.Anything).Return(nil)

	session, err := f.svc.StartSession(context.Background(), "learner-1", models.ModeStandard, "hard", 40)

	require.NoError(t, err)
	assert.Equal(t, 3, session.CurrentDifficulty)
	assert.Equal(t, 40, session.QuestionPoolSize)
}

func TestStartSession_RejectsBadInput(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.StartSession(context.Background(), "learner-1", "marathon", "", 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))

	_, err = f.svc.StartSession(context.Background(), "learner-1", models.ModeAdaptive, "extreme", 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))

	f.sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitAnswer_AdaptiveCorrect(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 10, 5, 2), nil)
	f.sessions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("InsertAnswer", mock.Anything, mock.Anything).Return(nil)
	f.queue.On("EnqueuePrefetch", "session-1", 3, mock.Anything).Return(nil)

	result, err := f.svc.SubmitAnswer(context.Background(), "session-1", "item-9", true, 12.5)

	require.NoError(t, err)
	assert.Equal(t, 11, result.Session.AnsweredCount)
	assert.Equal(t, 6, result.Session.CorrectCount)
	assert.Equal(t, models.StatusActive, result.Session.Status)
	require.NotNil(t, result.NextDifficulty)
	assert.Equal(t, 3, *result.NextDifficulty)
	f.queue.AssertExpectations(t)
}

func TestSubmitAnswer_StandardReturnsNoNextDifficulty(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeStandard, 10, 5, 2), nil)
	f.sessions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("InsertAnswer", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SubmitAnswer(context.Background(), "session-1", "item-9", false, 3)

	require.NoError(t, err)
	assert.Nil(t, result.NextDifficulty)
	assert.Equal(t, 2, result.Session.CurrentDifficulty)
	f.queue.AssertNotCalled(t, "EnqueuePrefetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAnswer_TerminatesAtMasteryBar(t *testing.T) {
	// 74 answered, 74 correct: the 75th answer clears both the floor and the bar.
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 74, 74, 3), nil)
	f.sessions.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("InsertAnswer", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SubmitAnswer(context.Background(), "session-1", "item-75", true, 8)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.Session.Status)
	require.NotNil(t, result.Session.CompletedAt)
	assert.Equal(t, testNow, *result.Session.CompletedAt)
	assert.Nil(t, result.NextDifficulty, "a completed session needs no next item")
	f.queue.AssertNotCalled(t, "EnqueuePrefetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAnswer_SessionNotFound(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "missing").Return(nil, nil)

	_, err := f.svc.SubmitAnswer(context.Background(), "missing", "item-1", true, 0)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionNotFound, appCode(t, err))
}

func TestSubmitAnswer_SessionClosed(t *testing.T) {
	completed := activeSession(models.ModeAdaptive, 80, 70, 3)
	completed.Status = models.StatusCompleted

	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(completed, nil)

	_, err := f.svc.SubmitAnswer(context.Background(), "session-1", "item-1", true, 0)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionClosed, appCode(t, err))
	// No resurrection: nothing is written against a completed session.
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "InsertAnswer", mock.Anything, mock.Anything)
}

func TestSubmitAnswer_RetriesThenExhausts(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 10, 5, 2), nil)
	f.sessions.On("Update", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict)

	_, err := f.svc.SubmitAnswer(context.Background(), "session-1", "item-1", true, 0)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConcurrencyExhausted, appCode(t, err))
	f.sessions.AssertNumberOfCalls(t, "Update", 3)
}

func TestNextItem_ServedFromCache(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 2, 1, 2), nil)
	f.sessions.On("AnsweredItemIDs", mock.Anything, "session-1").Return([]string{"item-1", "item-2"}, nil)
	f.cache.Put(2, []questionbank.Item{{ID: "item-2", Difficulty: 2}, {ID: "item-3", Difficulty: 2}})

	item, err := f.svc.NextItem(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, "item-3", item.ID, "answered items are skipped")
	f.bank.AssertNotCalled(t, "FetchItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestNextItem_FallsBackToBank(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 1, 1, 3), nil)
	f.sessions.On("AnsweredItemIDs", mock.Anything, "session-1").Return([]string{"item-1"}, nil)
	f.bank.On("FetchItem", mock.Anything, 3, []string{"item-1"}).Return(&questionbank.Item{ID: "item-4", Difficulty: 3}, nil)

	item, err := f.svc.NextItem(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, "item-4", item.ID)
	f.bank.AssertExpectations(t)
}

func TestNextItem_BankUnavailable(t *testing.T) {
	f := newExamFixture()
	f.sessions.On("Get", mock.Anything, "session-1").Return(activeSession(models.ModeAdaptive, 0, 0, 2), nil)
	f.sessions.On("AnsweredItemIDs", mock.Anything, "session-1").Return([]string{}, nil)
	f.bank.On("FetchItem", mock.Anything, 2, mock.Anything).Return(nil, assert.AnError)

	_, err := f.svc.NextItem(context.Background(), "session-1")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCollaboratorUnavailable, appCode(t, err))
}
