package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/learners/{learnerID}", func(r chi.Router) {
		r.Post("/items/{itemID}/review", s.handleRecordReview)
		r.Get("/due", s.handleDueCards)
		r.Get("/stats", s.handleLearnerStats)
		r.Get("/exams", s.handleListSessions)
	})

	r.Route("/exams", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/{sessionID}", s.handleGetSession)
		r.Get("/{sessionID}/next", s.handleNextItem)
		r.Post("/{sessionID}/answers", s.handleSubmitAnswer)
	})

	return r
}
