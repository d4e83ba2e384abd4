package models

import "time"

// Exam modes.
const (
	ModeAdaptive = "adaptive"
	ModeStandard = "standard"
)

// Session statuses. The only legal transition is active -> completed.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// ExamSession is one attempt of an adaptive or standard exam.
type ExamSession struct {
	ID                string     `json:"id"`
	LearnerID         string     `json:"learner_id"`
	Mode              string     `json:"mode"`
	AnsweredCount     int        `json:"answered_count"`
	CorrectCount      int        `json:"correct_count"`
	CurrentDifficulty int        `json:"current_difficulty"`
	MasteryEstimate   float64    `json:"mastery_estimate"`
	Status            string     `json:"status"`
	QuestionPoolSize  int        `json:"question_pool_size"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	Version           int64      `json:"-"`
}

// Active reports whether the session still accepts answers.
func (s *ExamSession) Active() bool {
	return s.Status == StatusActive
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	LearnerID string
	Status    string
	Mode      string
	Limit     int
}

// ExamAnswer is one recorded answer within an exam session.
type ExamAnswer struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	ItemID       string    `json:"item_id"`
	WasCorrect   bool      `json:"was_correct"`
	TimeSeconds  float64   `json:"time_seconds"`
	AnswerNumber int       `json:"answer_number"`
	CreatedAt    time.Time `json:"created_at"`
}
