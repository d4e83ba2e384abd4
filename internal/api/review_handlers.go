package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/prepdeck/internal/errors"
	"github.com/prepdeck/prepdeck/internal/logger"
)

type recordReviewRequest struct {
	Quality     int     `json:"quality"`
	TimeSeconds float64 `json:"time_seconds"`
}

func (s *Server) handleRecordReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learnerID := chi.URLParam(r, "learnerID")
	itemID := chi.URLParam(r, "itemID")

	var req recordReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("review request: learner_id=%s, item_id=%s, quality=%d", learnerID, itemID, req.Quality)

	card, err := s.ReviewService.RecordReview(r.Context(), learnerID, itemID, req.Quality, req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learnerID := chi.URLParam(r, "learnerID")

	asOf := time.Time{}
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			log.Warn("invalid as_of value: %s", v)
			handleError(w, r, errors.NewBadRequestError("as_of must be RFC3339"))
			return
		}
		asOf = t
	}

	cards, err := s.ReviewService.DueCards(r.Context(), learnerID, asOf)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleLearnerStats(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	stats, err := s.ReviewService.LearnerStats(r.Context(), learnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
