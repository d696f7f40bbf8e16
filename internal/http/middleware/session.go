package middleware

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-roster-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

const (
	tokenIssuer     = "nba-roster-service"
	defaultTokenTTL = 24 * time.Hour
)

var (
	// ErrMissingToken is returned when a request carries no session token.
	ErrMissingToken = errors.New("missing session token")
	// ErrSessionMismatch is returned when a valid token names a user other than the current session.
	ErrSessionMismatch = errors.New("session token does not match current session")
)

// SessionTokens issues and verifies HS256 session tokens whose subject is the username.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokens builds a token issuer. An empty secret is replaced with a
// random per-process key, so tokens do not survive a restart.
func NewSessionTokens(secret string, ttl time.Duration) (*SessionTokens, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &SessionTokens{secret: key, ttl: ttl, now: time.Now}, nil
}

// TTL reports how long issued tokens stay valid.
func (t *SessionTokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for username and returns it with its expiry.
func (t *SessionTokens) Issue(username string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks the signature and expiry and returns the token subject.
func (t *SessionTokens) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingToken
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("verify session token: %w", err)
	}
	return claims.Subject, nil
}

// SessionSource reports the current gate state.
type SessionSource interface {
	State() session.State
}

// RequireSession rejects requests unless the gate is authenticated and the
// request token's subject is the gate's username. The token is read from the
// Authorization header first and the named cookie second.
func RequireSession(tokens *SessionTokens, source SessionSource, cookieName string, baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.FromContext(r.Context(), baseLogger)
			user, err := authorize(tokens, source, requestutil.SessionToken(r, cookieName))
			if err != nil {
				logging.Warn(logger, "session rejected", slog.Any("err", err))
				writeUnauthorized(w, r, logger)
				return
			}
			ctx := withUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authorize(tokens *SessionTokens, source SessionSource, raw string) (string, error) {
	st := source.State()
	if !st.Authenticated {
		return "", session.ErrNotAuthenticated
	}
	subject, err := tokens.Verify(raw)
	if err != nil {
		return "", err
	}
	if subject != st.Username {
		return "", ErrSessionMismatch
	}
	return subject, nil
}

// UserFromContext returns the username attached by RequireSession.
func UserFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(userKey{}).(string); ok {
		return val
	}
	return ""
}

func withUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

type userKey struct{}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	body := map[string]string{"error": session.ErrNotAuthenticated.Error()}
	if reqID := RequestIDFromContext(r.Context()); reqID != "" {
		body["requestId"] = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}
