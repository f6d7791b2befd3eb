package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// decodeRequest parses a JSON body into req and validates its struct tags
func decodeRequest(r *http.Request, req interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}
