package models

// PerformanceRecord is the learner-level aggregate derived from all of a
// learner's review cards. It is computed on demand and never persisted.
// A card can count toward both learning and needsReview; the categories
// are intentionally not mutually exclusive.
type PerformanceRecord struct {
	TotalCards    int     `json:"total_cards"`
	Mastered      int     `json:"mastered"`
	Learning      int     `json:"learning"`
	NeedsReview   int     `json:"needs_review"`
	RetentionRate float64 `json:"retention_rate"`
}
