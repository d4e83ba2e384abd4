package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/prepdeck/prepdeck/internal/repository/sqlite"
	"github.com/prepdeck/prepdeck/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) newSession(id string) models.ExamSession {
	return models.ExamSession{
		ID:                id,
		LearnerID:         "learner-1",
		Mode:              models.ModeAdaptive,
		CurrentDifficulty: 2,
		MasteryEstimate:   0.5,
		Status:            models.StatusActive,
		QuestionPoolSize:  75,
		StartedAt:         time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (s *SessionRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Insert(ctx, s.newSession("session-1")))

	got, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("learner-1", got.LearnerID)
	s.Assert().Equal(models.ModeAdaptive, got.Mode)
	s.Assert().Equal(models.StatusActive, got.Status)
	s.Assert().Equal(2, got.CurrentDifficulty)
	s.Assert().Nil(got.CompletedAt)
	s.Assert().Equal(int64(0), got.Version)
}

func (s *SessionRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "no-such-session")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *SessionRepositorySuite) TestUpdateCompletesSession() {
	ctx := context.Background()
	session := s.newSession("session-1")
	s.Require().NoError(s.repo.Insert(ctx, session))

	completedAt := session.StartedAt.Add(45 * time.Minute)
	session.AnsweredCount = 80
	session.CorrectCount = 64
	session.MasteryEstimate = 0.8
	session.Status = models.StatusCompleted
	session.CompletedAt = &completedAt
	s.Require().NoError(s.repo.Update(ctx, session))

	got, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusCompleted, got.Status)
	s.Assert().Equal(80, got.AnsweredCount)
	s.Require().NotNil(got.CompletedAt)
	s.Assert().True(got.CompletedAt.Equal(completedAt))
	s.Assert().Equal(int64(1), got.Version)
}

func (s *SessionRepositorySuite) TestUpdateStaleVersionIsConflict() {
	ctx := context.Background()
	session := s.newSession("session-1")
	s.Require().NoError(s.repo.Insert(ctx, session))

	session.AnsweredCount = 1
	s.Require().NoError(s.repo.Update(ctx, session)) // version now 1

	// Second writer read before the first one committed.
	session.AnsweredCount = 2
	err := s.repo.Update(ctx, session)
	s.Assert().ErrorIs(err, repository.ErrVersionConflict)
}

func (s *SessionRepositorySuite) TestListByLearnerFilters() {
	ctx := context.Background()

	active := s.newSession("session-active")
	completed := s.newSession("session-completed")
	completed.Status = models.StatusCompleted
	standard := s.newSession("session-standard")
	standard.Mode = models.ModeStandard

	for _, sess := range []models.ExamSession{active, completed, standard} {
		s.Require().NoError(s.repo.Insert(ctx, sess))
	}

	all, err := s.repo.ListByLearner(ctx, models.SessionFilter{LearnerID: "learner-1"})
	s.Require().NoError(err)
	s.Assert().Len(all, 3)

	activeOnly, err := s.repo.ListByLearner(ctx, models.SessionFilter{LearnerID: "learner-1", Status: models.StatusActive})
	s.Require().NoError(err)
	s.Assert().Len(activeOnly, 2)

	adaptiveCompleted, err := s.repo.ListByLearner(ctx, models.SessionFilter{
		LearnerID: "learner-1",
		Status:    models.StatusCompleted,
		Mode:      models.ModeAdaptive,
	})
	s.Require().NoError(err)
	s.Require().Len(adaptiveCompleted, 1)
	s.Assert().Equal("session-completed", adaptiveCompleted[0].ID)
}

func (s *SessionRepositorySuite) TestAnswersRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newSession("session-1")))

	answers := []models.ExamAnswer{
		{SessionID: "session-1", ItemID: "item-a", WasCorrect: true, TimeSeconds: 10, AnswerNumber: 1},
		{SessionID: "session-1", ItemID: "item-b", WasCorrect: false, TimeSeconds: 20, AnswerNumber: 2},
	}
	for _, a := range answers {
		s.Require().NoError(s.repo.InsertAnswer(ctx, a))
	}

	ids, err := s.repo.AnsweredItemIDs(ctx, "session-1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"item-a", "item-b"}, ids)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
