package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, learnerID, itemID string) (*models.ReviewCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: learner_id=%s, item_id=%s", learnerID, itemID)

	var c models.ReviewCard
	err := r.db.QueryRowContext(ctx, `
SELECT learner_id, item_id, ease_factor, interval_days, repetitions, next_review_at, last_outcome, version, created_at
FROM review_cards
WHERE learner_id = ? AND item_id = ?
`, learnerID, itemID).Scan(&c.LearnerID, &c.ItemID, &c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &c.LastOutcome, &c.Version, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: learner_id=%s, item_id=%s", learnerID, itemID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.ReviewCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: learner_id=%s, item_id=%s", c.LearnerID, c.ItemID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_cards (learner_id, item_id, ease_factor, interval_days, repetitions, next_review_at, last_outcome, version, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
`, c.LearnerID, c.ItemID, c.EaseFactor, c.IntervalDays, c.Repetitions, c.NextReviewAt, c.LastOutcome, c.CreatedAt)
	if err != nil {
		err = mapConstraintErr(err)
		if !errors.Is(err, repository.ErrVersionConflict) {
			log.Error("failed to insert card: %v", err)
		}
		return err
	}
	return nil
}

func (r *cardRepository) Update(ctx context.Context, c models.ReviewCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: learner_id=%s, item_id=%s, interval=%d, ease=%.2f", c.LearnerID, c.ItemID, c.IntervalDays, c.EaseFactor)

	res, err := r.db.ExecContext(ctx, `
UPDATE review_cards
SET ease_factor = ?, interval_days = ?, repetitions = ?, next_review_at = ?, last_outcome = ?, version = version + 1
WHERE learner_id = ? AND item_id = ? AND version = ?
`, c.EaseFactor, c.IntervalDays, c.Repetitions, c.NextReviewAt, c.LastOutcome, c.LearnerID, c.ItemID, c.Version)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Row moved under us (or never existed); let the caller re-read and retry.
		log.Debug("card version conflict: learner_id=%s, item_id=%s, version=%d", c.LearnerID, c.ItemID, c.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *cardRepository) DueCards(ctx context.Context, learnerID string, asOf time.Time, limit int) ([]models.ReviewCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: learner_id=%s, as_of=%s, limit=%d", learnerID, asOf.Format(time.RFC3339), limit)

	query := sqlBuilder.
		Select("learner_id", "item_id", "ease_factor", "interval_days", "repetitions", "next_review_at", "last_outcome", "version", "created_at").
		From("review_cards").
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.LtOrEq{"next_review_at": asOf}).
		OrderBy("next_review_at ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due cards query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan due card row: %v", err)
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) ListByLearner(ctx context.Context, learnerID string) ([]models.ReviewCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: learner_id=%s", learnerID)

	rows, err := r.db.QueryContext(ctx, `
SELECT learner_id, item_id, ease_factor, interval_days, repetitions, next_review_at, last_outcome, version, created_at
FROM review_cards
WHERE learner_id = ?
ORDER BY created_at ASC
`, learnerID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan card row: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) InsertReviewHistory(ctx context.Context, learnerID, itemID string, quality int, timeSeconds float64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review history: learner_id=%s, item_id=%s, quality=%d, time=%.2fs", learnerID, itemID, quality, timeSeconds)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (learner_id, item_id, quality, time_seconds)
VALUES (?, ?, ?, ?)
`, learnerID, itemID, quality, timeSeconds)
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}

func scanCards(rows *sql.Rows) ([]models.ReviewCard, error) {
	var cards []models.ReviewCard
	for rows.Next() {
		var c models.ReviewCard
		if err := rows.Scan(&c.LearnerID, &c.ItemID, &c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &c.LastOutcome, &c.Version, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
