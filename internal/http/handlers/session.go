package handlers

import (
	"log/slog"
	"net/http"
	"time"

	appsession "github.com/preston-bernstein/nba-roster-service/internal/app/session"
	"github.com/preston-bernstein/nba-roster-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
}

type sessionResponse struct {
	session.State
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SessionHandler exposes login, logout and the current session.
type SessionHandler struct {
	svc        *appsession.Service
	tokens     *middleware.SessionTokens
	cookieName string
	logger     *slog.Logger
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc *appsession.Service, tokens *middleware.SessionTokens, cookieName string, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, tokens: tokens, cookieName: cookieName, logger: logger}
}

// Get returns the current session state. It never fails.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{State: h.svc.State()}, h.logger)
}

// Login starts a session and returns a signed token in the body and a cookie.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	st, err := h.svc.Login(r.Context(), req.Username)
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}

	token, expires, err := h.tokens.Issue(st.Username)
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sessionResponse{State: st, Token: token, ExpiresAt: &expires}, logger)
}

// Logout ends the session and clears the cookie.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Logout(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sessionResponse{State: st}, loggerFromContext(r, h.logger))
}
