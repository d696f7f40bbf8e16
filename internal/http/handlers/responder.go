package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-roster-service/internal/feed"
	"github.com/preston-bernstein/nba-roster-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
	"github.com/preston-bernstein/nba-roster-service/internal/roster"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeErrorBody(w, r, status, map[string]any{"error": message}, logger)
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body map[string]any, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeFailure maps domain and upstream errors onto HTTP statuses.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if vErr, ok := roster.AsValidationError(err); ok {
		writeErrorBody(w, r, http.StatusUnprocessableEntity, map[string]any{
			"error":  vErr.Error(),
			"fields": vErr.Fields,
		}, logger)
		return
	}
	if unErr, ok := feed.AsUnavailableError(err); ok {
		body := map[string]any{"error": unErr.Message}
		if unErr.StatusCode > 0 {
			body["status"] = unErr.StatusCode
		}
		writeErrorBody(w, r, http.StatusBadGateway, body, logger)
		return
	}

	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		writeError(w, r, http.StatusUnauthorized, err.Error(), logger)
	case errors.Is(err, session.ErrInvalidUsername):
		writeError(w, r, http.StatusUnprocessableEntity, session.ErrInvalidUsername.Error(), logger)
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, roster.ErrAlreadyRostered), errors.Is(err, feed.ErrFetchInProgress):
		writeError(w, r, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, feed.ErrInvalidPage):
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled", logger)
	case errors.Is(err, providers.ErrProviderUnavailable):
		writeError(w, r, http.StatusBadGateway, err.Error(), logger)
	default:
		logging.Error(logger, "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}

// upstreamMessage renders a proxy failure the way the browser client expects it.
func upstreamMessage(err error) string {
	if status := providers.UpstreamStatus(err); status > 0 {
		return fmt.Sprintf("API request failed with status %d", status)
	}
	return "Failed to fetch players"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
