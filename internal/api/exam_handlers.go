package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/models"
)

type startSessionRequest struct {
	LearnerID      string `json:"learner_id"`
	Mode           string `json:"mode"`
	DifficultyHint string `json:"difficulty_hint,omitempty"`
	QuestionCount  int    `json:"question_count,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("start session request: learner_id=%s, mode=%s", req.LearnerID, req.Mode)

	if req.Mode == models.ModeStandard && req.QuestionCount == 0 {
		req.QuestionCount = s.DefaultExamSize
	}

	session, err := s.ExamService.StartSession(r.Context(), req.LearnerID, req.Mode, req.DifficultyHint, req.QuestionCount)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := s.ExamService.GetSession(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	filter := models.SessionFilter{
		LearnerID: chi.URLParam(r, "learnerID"),
		Status:    r.URL.Query().Get("status"),
		Mode:      r.URL.Query().Get("mode"),
	}

	sessions, err := s.ExamService.ListSessions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleNextItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	item, err := s.ExamService.NextItem(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

type submitAnswerRequest struct {
	ItemID      string  `json:"item_id"`
	IsCorrect   bool    `json:"is_correct"`
	TimeSeconds float64 `json:"time_seconds"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("submit answer request: session_id=%s, item_id=%s", sessionID, req.ItemID)

	result, err := s.ExamService.SubmitAnswer(r.Context(), sessionID, req.ItemID, req.IsCorrect, req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
