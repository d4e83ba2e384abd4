package scheduler

import (
	"errors"
	"math"
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
)

// ErrInvalidQuality is returned for quality scores outside [0, 5].
// Out-of-range input is rejected, never clamped.
var ErrInvalidQuality = errors.New("scheduler: quality out of range")

const (
	// MinEaseFactor is the SM-2 floor. Below it an item is considered
	// maximally difficult but never impossible.
	MinEaseFactor = 1.3

	// SecondStepDays is the fixed interval after the first successful
	// repetition following creation or a failure reset.
	SecondStepDays = 6

	// failThreshold splits the 0-5 quality scale: 0-2 failure, 3-5 success.
	failThreshold = 3
)

// Apply runs one SM-2 review step against a card and returns the updated card.
// quality is a 0-5 self-assessment score. Two identical calls advance state
// twice: each call is a distinct review event, so Apply is deliberately not
// idempotent.
func Apply(card models.ReviewCard, quality int, now time.Time) (models.ReviewCard, error) {
	if quality < 0 || quality > 5 {
		return card, ErrInvalidQuality
	}

	q := float64(quality)
	ease := card.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	var interval, repetitions int
	if quality < failThreshold {
		// Failed recall discards prior spacing gains entirely.
		interval = 1
		repetitions = 0
	} else {
		if card.IntervalDays <= 1 {
			interval = SecondStepDays
		} else {
			interval = int(math.Round(float64(card.IntervalDays) * ease))
		}
		repetitions = card.Repetitions + 1
	}

	card.EaseFactor = ease
	card.IntervalDays = interval
	card.Repetitions = repetitions
	card.NextReviewAt = now.AddDate(0, 0, interval)
	card.LastOutcome = quality >= failThreshold
	return card, nil
}
