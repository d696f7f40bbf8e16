// Package session holds the single-user login state that gates the roster views.
package session

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"
)

const minUsernameLength = 2

var (
	// ErrInvalidUsername is returned by Login for usernames shorter than two characters.
	ErrInvalidUsername = errors.New("username must be at least 2 characters")
	// ErrNotAuthenticated is returned when a gated operation runs without a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// State is the gate's current position. The zero value is Anonymous.
type State struct {
	Authenticated bool   `json:"isAuthenticated"`
	Username      string `json:"user,omitempty"`
}

// Anonymous is the logged-out state.
var Anonymous = State{}

// Authenticated returns the logged-in state for username.
func Authenticated(username string) State {
	return State{Authenticated: true, Username: username}
}

// Gate is a two-state machine: Anonymous and Authenticated(username).
// No credentials are checked; any username of valid length is accepted.
type Gate struct {
	mu    sync.RWMutex
	state State
}

// NewGate starts the gate in the restored state. An authenticated state with
// an empty username is treated as Anonymous.
func NewGate(restored State) *Gate {
	return &Gate{state: normalize(restored)}
}

// Restore replaces the current state with a persisted one.
func (g *Gate) Restore(restored State) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = normalize(restored)
	return g.state
}

func normalize(st State) State {
	if st.Username == "" {
		return Anonymous
	}
	st.Authenticated = true
	return st
}

// Login moves the gate to Authenticated(username). Logging in while already
// authenticated replaces the username.
func (g *Gate) Login(username string) (State, error) {
	if utf8.RuneCountInString(username) < minUsernameLength {
		return g.State(), fmt.Errorf("login: %w", ErrInvalidUsername)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Authenticated(username)
	return g.state, nil
}

// Logout moves the gate to Anonymous. Logging out while anonymous is a no-op.
func (g *Gate) Logout() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Anonymous
	return g.state
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Require returns the username when authenticated, ErrNotAuthenticated otherwise.
func (g *Gate) Require() (string, error) {
	st := g.State()
	if !st.Authenticated {
		return "", ErrNotAuthenticated
	}
	return st.Username, nil
}
