package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// sessionCounter reports the number of mounted pages
type sessionCounter interface {
	ActiveSessions(ctx context.Context) int
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	sessions sessionCounter
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions sessionCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	ActiveSessions int       `json:"activeSessions"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Version:        "1.0.0",
		ActiveSessions: h.sessions.ActiveSessions(r.Context()),
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
