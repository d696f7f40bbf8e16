package session

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-roster-service/internal/app/workspace"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/roster"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

const (
	cmdLogin  = "login"
	cmdLogout = "logout"
)

// Service runs login and logout through the workspace so the username is
// persisted with the rest of the state.
type Service struct {
	ws      *workspace.Workspace
	metrics *metrics.Recorder
	logger  *slog.Logger
}

func NewService(ws *workspace.Workspace, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{ws: ws, metrics: recorder, logger: logger}
}

// State returns the current session.
func (s *Service) State() session.State {
	return s.ws.Gate().State()
}

// Login authenticates username. Invalid usernames leave the state unchanged.
func (s *Service) Login(ctx context.Context, username string) (session.State, error) {
	var st session.State
	err := s.ws.Apply(ctx, func(_ *roster.Engine, g *session.Gate) error {
		var err error
		st, err = g.Login(username)
		return err
	})
	logger := logging.FromContext(ctx, s.logger)
	if err != nil {
		s.metrics.RecordCommand(cmdLogin, "rejected")
		logging.Warn(logger, "login rejected", slog.Any("err", err))
		return s.State(), err
	}
	s.metrics.RecordCommand(cmdLogin, "ok")
	logging.Info(logger, "session started", slog.String(logging.FieldUser, st.Username))
	return st, nil
}

// Logout clears the session. It always succeeds.
func (s *Service) Logout(ctx context.Context) session.State {
	var st session.State
	_ = s.ws.Apply(ctx, func(_ *roster.Engine, g *session.Gate) error {
		st = g.Logout()
		return nil
	})
	s.metrics.RecordCommand(cmdLogout, "ok")
	logging.Info(logging.FromContext(ctx, s.logger), "session ended")
	return st
}
