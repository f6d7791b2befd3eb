package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/catalog-browser/internal/repository"
	"github.com/Lixing-Zhang/catalog-browser/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type pageContextKey struct{}

// PageResolver looks a mounted page up by session id
type PageResolver interface {
	Page(ctx context.Context, id string) (*view.Page, error)
}

// Session middleware resolves the {sessionId} URL parameter to a mounted
// page and stores it in the request context.
// Malformed ids are rejected with 400, unknown ones with 404.
func Session(resolver PageResolver, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionId")

			if _, err := uuid.Parse(sessionID); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid session ID", logger)
				return
			}

			page, err := resolver.Page(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, repository.ErrSessionNotFound) {
					writeError(w, http.StatusNotFound, "Session not found", logger)
					return
				}
				logger.Error("failed to resolve session", "session_id", sessionID, "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error", logger)
				return
			}

			ctx := context.WithValue(r.Context(), pageContextKey{}, page)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PageFromContext returns the page stored by the Session middleware
func PageFromContext(ctx context.Context) (*view.Page, bool) {
	page, ok := ctx.Value(pageContextKey{}).(*view.Page)
	return page, ok
}

func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}
