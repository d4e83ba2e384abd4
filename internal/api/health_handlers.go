package api

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"status": "ok"}
	if s.PrefetchPool != nil {
		payload["prefetch_queue"] = s.PrefetchPool.QueueSize()
	}
	respondJSON(w, http.StatusOK, payload)
}
