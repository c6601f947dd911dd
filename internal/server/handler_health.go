package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	if _, err := s.store.Stats(r.Context()); err != nil {
		s.logger.Warn("health check store probe failed", "error", err)
		storeStatus = "unavailable"
	}
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeStatus,
	})
}
