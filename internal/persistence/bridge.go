package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

const (
	opLoad = "load"
	opSave = "save"
)

// State is everything that survives a restart.
type State struct {
	Session session.State `json:"auth"`
	Teams   []teams.Team  `json:"teams"`
}

// Bridge reads and writes State through a Provider. Both directions are best
// effort: Load falls back to empty defaults and Save swallows failures after
// logging them.
type Bridge struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewBridge constructs a Bridge. A nil provider keeps state in memory only.
func NewBridge(provider Provider, logger *slog.Logger, recorder *metrics.Recorder) *Bridge {
	if provider == nil {
		provider = NewMemoryProvider()
	}
	return &Bridge{
		provider: provider,
		logger:   logger,
		metrics:  recorder,
	}
}

// Load returns the persisted state. A missing or corrupt snapshot yields an
// empty team list and whatever session the standalone user key holds.
func (b *Bridge) Load(ctx context.Context) State {
	state, err := b.loadSnapshot(ctx)
	if err == nil {
		b.metrics.RecordPersistence(opLoad, nil)
		return state
	}
	if errors.Is(err, errNoSnapshot) {
		b.metrics.RecordPersistence(opLoad, nil)
	} else {
		b.metrics.RecordPersistence(opLoad, err)
		logging.Warn(b.logger, "persisted snapshot unreadable, starting empty",
			slog.String(logging.FieldKey, KeySnapshot),
			slog.Any("err", err),
		)
	}

	state = State{Teams: []teams.Team{}}
	user, ok, userErr := b.provider.Get(ctx, KeyUser)
	if userErr != nil {
		logging.Warn(b.logger, "persisted user unreadable",
			slog.String(logging.FieldKey, KeyUser),
			slog.Any("err", userErr),
		)
		return state
	}
	if ok && user != "" {
		state.Session = session.Authenticated(user)
	}
	return state
}

// Save writes the snapshot and mirrors the username key. Failures are logged
// and counted, never returned.
func (b *Bridge) Save(ctx context.Context, state State) {
	err := b.save(ctx, state)
	b.metrics.RecordPersistence(opSave, err)
	if err != nil {
		logging.Warn(b.logger, "persist state failed", slog.Any("err", err))
	}
}

func (b *Bridge) save(ctx context.Context, state State) error {
	if state.Teams == nil {
		state.Teams = []teams.Team{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := b.provider.Set(ctx, KeySnapshot, string(data)); err != nil {
		return err
	}
	if state.Session.Authenticated && state.Session.Username != "" {
		return b.provider.Set(ctx, KeyUser, state.Session.Username)
	}
	return b.provider.Remove(ctx, KeyUser)
}

var errNoSnapshot = errors.New("no persisted snapshot")

func (b *Bridge) loadSnapshot(ctx context.Context) (State, error) {
	raw, ok, err := b.provider.Get(ctx, KeySnapshot)
	if err != nil {
		return State{}, err
	}
	if !ok || raw == "" {
		return State{}, errNoSnapshot
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, err
	}
	if state.Teams == nil {
		state.Teams = []teams.Team{}
	}
	for i := range state.Teams {
		if state.Teams[i].Players == nil {
			state.Teams[i].Players = []players.Player{}
		}
	}
	state.Session = session.NewGate(state.Session).State()
	return state, nil
}
