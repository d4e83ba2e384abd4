package models

import "time"

// Scheduling defaults for a freshly created review card.
const (
	InitialEaseFactor   = 2.5
	InitialIntervalDays = 1
)

// ReviewCard is the spaced-repetition state for one (learner, item) pair.
// It is created on the learner's first review of the item and never deleted.
type ReviewCard struct {
	LearnerID    string    `json:"learner_id"`
	ItemID       string    `json:"item_id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
	LastOutcome  bool      `json:"last_outcome"`
	CreatedAt    time.Time `json:"created_at"`
	Version      int64     `json:"-"`
}

// NewReviewCard returns a card with scheduling defaults, due immediately.
func NewReviewCard(learnerID, itemID string, now time.Time) ReviewCard {
	return ReviewCard{
		LearnerID:    learnerID,
		ItemID:       itemID,
		EaseFactor:   InitialEaseFactor,
		IntervalDays: InitialIntervalDays,
		Repetitions:  0,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}

// ReviewHistory is one recorded review event, kept for audit and timing stats.
type ReviewHistory struct {
	ID          int64     `json:"id"`
	LearnerID   string    `json:"learner_id"`
	ItemID      string    `json:"item_id"`
	Quality     int       `json:"quality"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}
