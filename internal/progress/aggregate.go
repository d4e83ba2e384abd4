// Package progress rolls per-item review state into learner-level stats.
// It is read-only: the aggregate never feeds back into scheduling decisions.
package progress

import (
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
)

// Classification thresholds.
const (
	masteredEase        = 2.5 // mastered requires ease strictly above this
	masteredRepetitions = 3   // and strictly more repetitions than this
	learningMaxInterval = 7   // days; non-mastered cards at or under are "learning"
)

// Aggregate computes a PerformanceRecord from all of a learner's cards.
// mastered and learning are mutually exclusive; needsReview is counted
// independently, so an overdue learning card appears in both.
func Aggregate(cards []models.ReviewCard, now time.Time) models.PerformanceRecord {
	rec := models.PerformanceRecord{TotalCards: len(cards)}

	correct := 0
	for _, c := range cards {
		switch {
		case c.EaseFactor > masteredEase && c.Repetitions > masteredRepetitions:
			rec.Mastered++
		case c.IntervalDays <= learningMaxInterval:
			rec.Learning++
		}
		if !c.NextReviewAt.After(now) {
			rec.NeedsReview++
		}
		if c.LastOutcome {
			correct++
		}
	}

	if rec.TotalCards > 0 {
		rec.RetentionRate = float64(correct) / float64(rec.TotalCards) * 100
	}
	return rec
}
