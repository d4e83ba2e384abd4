package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prepdeck/prepdeck/internal/clock"
	"github.com/prepdeck/prepdeck/internal/errors"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/progress"
	"github.com/prepdeck/prepdeck/internal/repository"
	"github.com/prepdeck/prepdeck/internal/scheduler"
)

// writeAttempts bounds the internal re-read/recompute/re-write loop run when
// an optimistic write loses to a concurrent one on the same record.
const writeAttempts = 3

// ReviewService handles spaced-repetition business logic
type ReviewService interface {
	RecordReview(ctx context.Context, learnerID, itemID string, quality int, timeSeconds float64) (*models.ReviewCard, error)
	DueCards(ctx context.Context, learnerID string, asOf time.Time) ([]models.ReviewCard, error)
	LearnerStats(ctx context.Context, learnerID string) (*models.PerformanceRecord, error)
}

type reviewService struct {
	cards repository.CardRepository
	clock clock.Clock
}

// NewReviewService creates a new ReviewService
func NewReviewService(cards repository.CardRepository, clk clock.Clock) ReviewService {
	return &reviewService{cards: cards, clock: clk}
}

func (s *reviewService) RecordReview(ctx context.Context, learnerID, itemID string, quality int, timeSeconds float64) (*models.ReviewCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording review: learner_id=%s, item_id=%s, quality=%d", learnerID, itemID, quality)

	// Reject before touching any state; out-of-range quality is never clamped.
	if quality < 0 || quality > 5 {
		return nil, errors.NewInvalidQualityError(quality)
	}
	if learnerID == "" {
		return nil, errors.NewValidationError("learnerID", "cannot be empty")
	}
	if itemID == "" {
		return nil, errors.NewValidationError("itemID", "cannot be empty")
	}

	var lastErr error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		card, err := s.cards.Get(ctx, learnerID, itemID)
		if err != nil {
			log.Error("failed to load card: %v", err)
			return nil, errors.NewInternalError(err)
		}

		now := s.clock.Now()
		created := card == nil
		if created {
			// First review of this item by this learner.
			c := models.NewReviewCard(learnerID, itemID, now)
			card = &c
		}

		updated, err := scheduler.Apply(*card, quality, now)
		if err != nil {
			// Unreachable given the validation above; keep the explicit branch.
			return nil, errors.NewInvalidQualityError(quality)
		}

		if created {
			err = s.cards.Insert(ctx, updated)
		} else {
			err = s.cards.Update(ctx, updated)
		}
		if stderrors.Is(err, repository.ErrVersionConflict) {
			log.Debug("card write conflict, retrying: attempt=%d", attempt+1)
			lastErr = err
			continue
		}
		if err != nil {
			log.Error("failed to persist card: %v", err)
			return nil, errors.NewInternalError(err)
		}

		log.Debug("review applied: interval=%d days, ease=%.2f, repetitions=%d", updated.IntervalDays, updated.EaseFactor, updated.Repetitions)

		// Store review history with timing data (non-blocking)
		if timeSeconds > 0 {
			if err := s.cards.InsertReviewHistory(ctx, learnerID, itemID, quality, timeSeconds); err != nil {
				log.Warn("failed to store review history: %v", err)
				// Don't fail the review if history storage fails
			}
		}

		return &updated, nil
	}

	log.Error("card write retries exhausted: learner_id=%s, item_id=%s", learnerID, itemID)
	return nil, errors.NewConcurrencyExhaustedError("review card", lastErr)
}

func (s *reviewService) DueCards(ctx context.Context, learnerID string, asOf time.Time) ([]models.ReviewCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching due cards: learner_id=%s", learnerID)

	if learnerID == "" {
		return nil, errors.NewValidationError("learnerID", "cannot be empty")
	}
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}

	cards, err := s.cards.DueCards(ctx, learnerID, asOf, 0)
	if err != nil {
		log.Error("failed to fetch due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *reviewService) LearnerStats(ctx context.Context, learnerID string) (*models.PerformanceRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing learner stats: learner_id=%s", learnerID)

	if learnerID == "" {
		return nil, errors.NewValidationError("learnerID", "cannot be empty")
	}

	cards, err := s.cards.ListByLearner(ctx, learnerID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	rec := progress.Aggregate(cards, s.clock.Now())
	return &rec, nil
}
