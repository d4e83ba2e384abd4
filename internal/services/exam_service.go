package services

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/clock"
	"github.com/prepdeck/prepdeck/internal/errors"
	"github.com/prepdeck/prepdeck/internal/exam"
	"github.com/prepdeck/prepdeck/internal/jobs"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/questionbank"
	"github.com/prepdeck/prepdeck/internal/repository"
)

// prefetchBatchSize is how many items a difficulty change warms into the cache.
const prefetchBatchSize = 5

// SubmitResult is the outcome of one answer: the updated session and, while an
// adaptive session is still running, the difficulty to fetch the next item at.
type SubmitResult struct {
	Session        *models.ExamSession `json:"session"`
	NextDifficulty *int                `json:"next_difficulty,omitempty"`
}

// ExamService handles exam session business logic
type ExamService interface {
	StartSession(ctx context.Context, learnerID, mode, difficultyHint string, questionCount int) (*models.ExamSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ExamSession, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ExamSession, error)
	SubmitAnswer(ctx context.Context, sessionID, itemID string, isCorrect bool, timeSeconds float64) (*SubmitResult, error)
	NextItem(ctx context.Context, sessionID string) (*questionbank.Item, error)
}

type examService struct {
	sessions repository.SessionRepository
	bank     questionbank.ClientInterface
	cache    *questionbank.Cache
	queue    jobs.JobQueue
	clock    clock.Clock
}

// NewExamService creates a new ExamService
func NewExamService(sessions repository.SessionRepository, bank questionbank.ClientInterface, cache *questionbank.Cache, queue jobs.JobQueue, clk clock.Clock) ExamService {
	return &examService{
		sessions: sessions,
		bank:     bank,
		cache:    cache,
		queue:    queue,
		clock:    clk,
	}
}

func (s *examService) StartSession(ctx context.Context, learnerID, mode, difficultyHint string, questionCount int) (*models.ExamSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting exam session: learner_id=%s, mode=%s, hint=%s", learnerID, mode, difficultyHint)

	if learnerID == "" {
		return nil, errors.NewValidationError("learnerID", "cannot be empty")
	}
	if mode != models.ModeAdaptive && mode != models.ModeStandard {
		return nil, errors.NewValidationError("mode", "must be 'adaptive' or 'standard'")
	}

	difficulty, err := exam.DifficultyFromHint(difficultyHint)
	if err != nil {
		return nil, errors.NewValidationError("difficultyHint", "must be 'easy', 'medium', or 'hard'")
	}

	session := models.ExamSession{
		ID:                uuid.NewString(),
		LearnerID:         learnerID,
		Mode:              mode,
		CurrentDifficulty: difficulty,
		MasteryEstimate:   0.5,
		Status:            models.StatusActive,
		QuestionPoolSize:  exam.PoolSize(mode, questionCount),
		StartedAt:         s.clock.Now(),
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Warm the cache for the opening difficulty; failures only cost latency.
	if err := s.queue.EnqueuePrefetch(session.ID, session.CurrentDifficulty, prefetchBatchSize); err != nil {
		log.Warn("failed to enqueue prefetch: %v", err)
	}

	log.Info("exam session started: id=%s, mode=%s, difficulty=%d, pool=%d", session.ID, mode, difficulty, session.QuestionPoolSize)
	return &session, nil
}

func (s *examService) GetSession(ctx context.Context, sessionID string) (*models.ExamSession, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

func (s *examService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ExamSession, error) {
	log := logger.FromContext(ctx)

	if filter.LearnerID == "" {
		return nil, errors.NewValidationError("learnerID", "cannot be empty")
	}

	sessions, err := s.sessions.ListByLearner(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *examService) SubmitAnswer(ctx context.Context, sessionID, itemID string, isCorrect bool, timeSeconds float64) (*SubmitResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: session_id=%s, item_id=%s, correct=%t", sessionID, itemID, isCorrect)

	if itemID == "" {
		return nil, errors.NewValidationError("itemID", "cannot be empty")
	}

	var lastErr error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		session, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			log.Error("failed to load session: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if session == nil {
			return nil, errors.NewSessionNotFoundError(sessionID)
		}
		if !session.Active() {
			// Completed sessions are immutable; no partial effect.
			return nil, errors.NewSessionClosedError(sessionID)
		}

		prevDifficulty := session.CurrentDifficulty
		updated := exam.Apply(*session, isCorrect)
		if exam.ShouldTerminate(updated) {
			now := s.clock.Now()
			updated.Status = models.StatusCompleted
			updated.CompletedAt = &now
		}

		if err := s.sessions.Update(ctx, updated); err != nil {
			if stderrors.Is(err, repository.ErrVersionConflict) {
				log.Debug("session write conflict, retrying: attempt=%d", attempt+1)
				lastErr = err
				continue
			}
			log.Error("failed to persist session: %v", err)
			return nil, errors.NewInternalError(err)
		}

		// Record the answer for audit and the exclude-list (non-blocking).
		answer := models.ExamAnswer{
			SessionID:    sessionID,
			ItemID:       itemID,
			WasCorrect:   isCorrect,
			TimeSeconds:  timeSeconds,
			AnswerNumber: updated.AnsweredCount,
		}
		if err := s.sessions.InsertAnswer(ctx, answer); err != nil {
			log.Warn("failed to store exam answer: %v", err)
		}

		result := &SubmitResult{Session: &updated}
		if updated.Active() && updated.Mode == models.ModeAdaptive {
			d := updated.CurrentDifficulty
			result.NextDifficulty = &d

			if d != prevDifficulty {
				if err := s.queue.EnqueuePrefetch(sessionID, d, prefetchBatchSize); err != nil {
					log.Warn("failed to enqueue prefetch: %v", err)
				}
			}
		}

		if !updated.Active() {
			log.Info("exam session completed: id=%s, answered=%d, mastery=%.3f", sessionID, updated.AnsweredCount, updated.MasteryEstimate)
		}
		return result, nil
	}

	log.Error("session write retries exhausted: session_id=%s", sessionID)
	return nil, errors.NewConcurrencyExhaustedError("exam session", lastErr)
}

func (s *examService) NextItem(ctx context.Context, sessionID string) (*questionbank.Item, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching next item: session_id=%s", sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	if !session.Active() {
		return nil, errors.NewSessionClosedError(sessionID)
	}

	answered, err := s.sessions.AnsweredItemIDs(ctx, sessionID)
	if err != nil {
		log.Error("failed to load answered items: %v", err)
		return nil, errors.NewInternalError(err)
	}

	exclude := make(map[string]bool, len(answered))
	for _, id := range answered {
		exclude[id] = true
	}

	if item := s.cache.Take(session.CurrentDifficulty, exclude); item != nil {
		log.Debug("served item from cache: item_id=%s, difficulty=%d", item.ID, item.Difficulty)
		return item, nil
	}

	item, err := s.bank.FetchItem(ctx, session.CurrentDifficulty, answered)
	if err != nil {
		log.Error("question bank fetch failed: %v", err)
		return nil, errors.NewCollaboratorUnavailableError("question bank", err)
	}
	return item, nil
}
