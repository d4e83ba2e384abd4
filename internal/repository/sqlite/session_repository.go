package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/models"
	"github.com/prepdeck/prepdeck/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.ExamSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, learner_id=%s, mode=%s", s.ID, s.LearnerID, s.Mode)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO exam_sessions (id, learner_id, mode, answered_count, correct_count, current_difficulty, mastery_estimate, status, question_pool_size, started_at, completed_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
`, s.ID, s.LearnerID, s.Mode, s.AnsweredCount, s.CorrectCount, s.CurrentDifficulty, s.MasteryEstimate, s.Status, s.QuestionPoolSize, s.StartedAt, s.CompletedAt)
	if err != nil {
		err = mapConstraintErr(err)
		if !errors.Is(err, repository.ErrVersionConflict) {
			log.Error("failed to insert session: %v", err)
		}
		return err
	}
	return nil
}

func (r *sessionRepository) Update(ctx context.Context, s models.ExamSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%s, answered=%d, status=%s", s.ID, s.AnsweredCount, s.Status)

	res, err := r.db.ExecContext(ctx, `
UPDATE exam_sessions
SET answered_count = ?, correct_count = ?, current_difficulty = ?, mastery_estimate = ?, status = ?, completed_at = ?, version = version + 1
WHERE id = ? AND version = ?
`, s.AnsweredCount, s.CorrectCount, s.CurrentDifficulty, s.MasteryEstimate, s.Status, s.CompletedAt, s.ID, s.Version)
	if err != nil {
		log.Error("failed to update session: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Debug("session version conflict: id=%s, version=%d", s.ID, s.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*models.ExamSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", sessionID)

	var s models.ExamSession
	err := r.db.QueryRowContext(ctx, `
SELECT id, learner_id, mode, answered_count, correct_count, current_difficulty, mastery_estimate, status, question_pool_size, started_at, completed_at, version
FROM exam_sessions
WHERE id = ?
`, sessionID).Scan(&s.ID, &s.LearnerID, &s.Mode, &s.AnsweredCount, &s.CorrectCount, &s.CurrentDifficulty, &s.MasteryEstimate, &s.Status, &s.QuestionPoolSize, &s.StartedAt, &s.CompletedAt, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", sessionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) ListByLearner(ctx context.Context, filter models.SessionFilter) ([]models.ExamSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: learner_id=%s, status=%s, mode=%s", filter.LearnerID, filter.Status, filter.Mode)

	query := sqlBuilder.
		Select("id", "learner_id", "mode", "answered_count", "correct_count", "current_difficulty", "mastery_estimate", "status", "question_pool_size", "started_at", "completed_at", "version").
		From("exam_sessions").
		Where(squirrel.Eq{"learner_id": filter.LearnerID}).
		OrderBy("started_at DESC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Mode != "" {
		query = query.Where(squirrel.Eq{"mode": filter.Mode})
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ExamSession
	for rows.Next() {
		var s models.ExamSession
		if err := rows.Scan(&s.ID, &s.LearnerID, &s.Mode, &s.AnsweredCount, &s.CorrectCount, &s.CurrentDifficulty, &s.MasteryEstimate, &s.Status, &s.QuestionPoolSize, &s.StartedAt, &s.CompletedAt, &s.Version); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) InsertAnswer(ctx context.Context, a models.ExamAnswer) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting answer: session_id=%s, item_id=%s, number=%d", a.SessionID, a.ItemID, a.AnswerNumber)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO exam_answers (session_id, item_id, was_correct, time_seconds, answer_number)
VALUES (?, ?, ?, ?, ?)
`, a.SessionID, a.ItemID, a.WasCorrect, a.TimeSeconds, a.AnswerNumber)
	if err != nil {
		log.Error("failed to insert answer: %v", err)
	}
	return err
}

func (r *sessionRepository) AnsweredItemIDs(ctx context.Context, sessionID string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching answered item ids: session_id=%s", sessionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT item_id
FROM exam_answers
WHERE session_id = ?
ORDER BY answer_number ASC
`, sessionID)
	if err != nil {
		log.Error("failed to query answered items: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan item id: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
