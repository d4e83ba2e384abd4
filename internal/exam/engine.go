// Package exam holds the pure computer-adaptive-testing math: per-answer
// difficulty stepping and session termination. It performs no I/O; the
// services layer owns persistence and question fetching.
package exam

import (
	"errors"

	"github.com/prepdeck/prepdeck/internal/models"
)

// ErrInvalidDifficultyHint is returned for an unrecognized difficulty hint.
var ErrInvalidDifficultyHint = errors.New("exam: invalid difficulty hint")

const (
	MinDifficulty     = 1
	MaxDifficulty     = 3
	DefaultDifficulty = 2

	// Adaptive sessions never terminate before MinAdaptiveQuestions answers,
	// always terminate at MaxAdaptiveQuestions, and terminate in between once
	// the running accuracy clears MasteryBar.
	MinAdaptiveQuestions = 75
	MaxAdaptiveQuestions = 145
	MasteryBar           = 0.75

	// A standard session completes once the answer count exceeds
	// StandardQuestionLimit. The check is deliberately > rather than >=.
	StandardQuestionLimit = 100

	// Question-pool sizing handed to the question bank.
	AdaptiveInitialPool = 75
	StandardMinPool     = 25
	StandardMaxPool     = 100
)

// DifficultyFromHint maps a caller-facing hint to a difficulty level.
// An empty hint selects the default.
func DifficultyFromHint(hint string) (int, error) {
	switch hint {
	case "":
		return DefaultDifficulty, nil
	case "easy":
		return MinDifficulty, nil
	case "medium":
		return DefaultDifficulty, nil
	case "hard":
		return MaxDifficulty, nil
	default:
		return 0, ErrInvalidDifficultyHint
	}
}

// Apply records one answer against the session and returns the updated
// session: counters, running mastery estimate, and (in adaptive mode) a
// single-step difficulty adjustment clamped to [MinDifficulty, MaxDifficulty].
// It does not evaluate termination; pair with ShouldTerminate.
func Apply(s models.ExamSession, isCorrect bool) models.ExamSession {
	s.AnsweredCount++
	if isCorrect {
		s.CorrectCount++
	}
	s.MasteryEstimate = float64(s.CorrectCount) / float64(s.AnsweredCount)

	if s.Mode == models.ModeAdaptive {
		step := -1
		if isCorrect {
			step = 1
		}
		s.CurrentDifficulty = clampDifficulty(s.CurrentDifficulty + step)
	}
	return s
}

// ShouldTerminate reports whether the session has met its termination rule.
func ShouldTerminate(s models.ExamSession) bool {
	switch s.Mode {
	case models.ModeAdaptive:
		if s.AnsweredCount < MinAdaptiveQuestions {
			return false
		}
		return s.MasteryEstimate >= MasteryBar || s.AnsweredCount >= MaxAdaptiveQuestions
	case models.ModeStandard:
		return s.AnsweredCount > StandardQuestionLimit
	default:
		return false
	}
}

// PoolSize returns how many items to request from the question bank up front.
// Standard mode pins the requested count into [StandardMinPool, StandardMaxPool].
func PoolSize(mode string, requested int) int {
	if mode == models.ModeAdaptive {
		return AdaptiveInitialPool
	}
	if requested < StandardMinPool {
		return StandardMinPool
	}
	if requested > StandardMaxPool {
		return StandardMaxPool
	}
	return requested
}

func clampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
