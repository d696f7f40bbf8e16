// Package workspace serializes every roster and session command behind one
// lock and mirrors the resulting state to the persistence bridge.
package workspace

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-roster-service/internal/persistence"
	"github.com/preston-bernstein/nba-roster-service/internal/roster"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

// Workspace owns the roster engine and session gate for one user session.
type Workspace struct {
	mu     sync.Mutex
	engine *roster.Engine
	gate   *session.Gate
	bridge *persistence.Bridge
	loaded atomic.Bool
}

// New builds an empty, anonymous workspace. A nil bridge keeps state in memory.
func New(bridge *persistence.Bridge) *Workspace {
	if bridge == nil {
		bridge = persistence.NewBridge(nil, nil, nil)
	}
	return &Workspace{
		engine: roster.NewEngine(),
		gate:   session.NewGate(session.Anonymous),
		bridge: bridge,
	}
}

// Load rehydrates the engine and gate from persisted state. It never fails;
// unreadable state starts empty.
func (w *Workspace) Load(ctx context.Context) persistence.State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.bridge.Load(ctx)
	w.engine.Restore(state.Teams)
	w.gate.Restore(state.Session)
	w.loaded.Store(true)
	return w.snapshot()
}

// Loaded reports whether Load has completed.
func (w *Workspace) Loaded() bool {
	return w.loaded.Load()
}

// Apply runs fn as one command. When fn succeeds the full state is saved
// before Apply returns; save failures are swallowed by the bridge. The save
// ignores ctx cancellation so an applied command is never left unpersisted.
func (w *Workspace) Apply(ctx context.Context, fn func(*roster.Engine, *session.Gate) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := fn(w.engine, w.gate); err != nil {
		return err
	}
	w.bridge.Save(context.WithoutCancel(ctx), w.snapshot())
	return nil
}

// Engine exposes the engine for read-only queries.
func (w *Workspace) Engine() *roster.Engine {
	return w.engine
}

// Gate exposes the session gate for read-only queries.
func (w *Workspace) Gate() *session.Gate {
	return w.gate
}

// Snapshot returns the state as it would be persisted.
func (w *Workspace) Snapshot() persistence.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Workspace) snapshot() persistence.State {
	return persistence.State{
		Session: w.gate.State(),
		Teams:   w.engine.Snapshot(),
	}
}
