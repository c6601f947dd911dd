package server

import "net/http"

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
