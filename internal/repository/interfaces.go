package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prepdeck/prepdeck/internal/models"
)

// ErrVersionConflict is returned when an optimistic-concurrency write loses the
// race: the row's version moved (or a concurrent insert claimed the key) between
// read and write. Callers re-read, recompute, and retry.
var ErrVersionConflict = errors.New("repository: version conflict")

// CardRepository handles review card data access.
// Get returns (nil, nil) when no card exists for the pair.
type CardRepository interface {
	Get(ctx context.Context, learnerID, itemID string) (*models.ReviewCard, error)
	Insert(ctx context.Context, card models.ReviewCard) error
	Update(ctx context.Context, card models.ReviewCard) error
	DueCards(ctx context.Context, learnerID string, asOf time.Time, limit int) ([]models.ReviewCard, error)
	ListByLearner(ctx context.Context, learnerID string) ([]models.ReviewCard, error)
	InsertReviewHistory(ctx context.Context, learnerID, itemID string, quality int, timeSeconds float64) error
}

// SessionRepository handles exam session data access.
// Get returns (nil, nil) when the session does not exist.
type SessionRepository interface {
	Insert(ctx context.Context, session models.ExamSession) error
	Update(ctx context.Context, session models.ExamSession) error
	Get(ctx context.Context, sessionID string) (*models.ExamSession, error)
	ListByLearner(ctx context.Context, filter models.SessionFilter) ([]models.ExamSession, error)
	InsertAnswer(ctx context.Context, answer models.ExamAnswer) error
	AnsweredItemIDs(ctx context.Context, sessionID string) ([]string, error)
}
