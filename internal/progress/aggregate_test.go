package progress_test

import (
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/progress"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func card(ease float64, reps, interval int, due time.Time, lastOutcome bool) models.ReviewCard {
	return models.ReviewCard{
		LearnerID:    "learner-1",
		EaseFactor:   ease,
		Repetitions:  reps,
		IntervalDays: interval,
		NextReviewAt: due,
		LastOutcome:  lastOutcome,
	}
}

func TestAggregate_Empty(t *testing.T) {
	rec := progress.Aggregate(nil, now)

	assert.Equal(t, models.PerformanceRecord{}, rec)
	assert.Zero(t, rec.RetentionRate, "no reviews means zero retention, not NaN")
}

func TestAggregate_MasteredRequiresEaseAndRepetitions(t *testing.T) {
	future := now.AddDate(0, 0, 30)
	cards := []models.ReviewCard{
		card(2.6, 4, 30, future, true),  // mastered
		card(2.6, 3, 30, future, true),  // repetitions too low, long interval: neither bucket
		card(2.5, 4, 30, future, true),  // ease not strictly above 2.5
		card(2.45, 10, 5, future, true), // low ease, short interval: learning
	}

	rec := progress.Aggregate(cards, now)

	assert.Equal(t, 4, rec.TotalCards)
	assert.Equal(t, 1, rec.Mastered)
	assert.Equal(t, 1, rec.Learning)
}

func TestAggregate_LearningBoundary(t *testing.T) {
	future := now.AddDate(0, 0, 30)
	cards := []models.ReviewCard{
		card(2.0, 1, 7, future, true), // interval at the boundary counts
		card(2.0, 1, 8, future, true), // one past does not
	}

	rec := progress.Aggregate(cards, now)

	assert.Equal(t, 1, rec.Learning)
}

func TestAggregate_NeedsReviewOverlapsLearning(t *testing.T) {
	// An overdue short-interval card is counted in both buckets.
	overdue := now.AddDate(0, 0, -2)
	cards := []models.ReviewCard{
		card(2.0, 1, 3, overdue, false),
		card(2.0, 1, 3, now, true), // due exactly now counts as due
	}

	rec := progress.Aggregate(cards, now)

	assert.Equal(t, 2, rec.Learning)
	assert.Equal(t, 2, rec.NeedsReview)
}

func TestAggregate_RetentionRate(t *testing.T) {
	future := now.AddDate(0, 0, 10)
	cards := []models.ReviewCard{
		card(2.5, 1, 6, future, true),
		card(2.5, 1, 6, future, true),
		card(2.5, 0, 1, future, false),
		card(2.5, 1, 6, future, true),
	}

	rec := progress.Aggregate(cards, now)

	assert.InDelta(t, 75.0, rec.RetentionRate, 1e-9)
}
