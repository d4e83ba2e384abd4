package api

import (
	"github.com/prepdeck/prepdeck/internal/services"
	"github.com/prepdeck/prepdeck/internal/worker"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	ReviewService services.ReviewService
	ExamService   services.ExamService
	PrefetchPool  *worker.Pool

	// DefaultExamSize is the question count used for standard sessions when
	// the request does not specify one.
	DefaultExamSize int
}
