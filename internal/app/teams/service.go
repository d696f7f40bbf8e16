package teams

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-roster-service/internal/app/workspace"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/notify"
	"github.com/preston-bernstein/nba-roster-service/internal/roster"
	"github.com/preston-bernstein/nba-roster-service/internal/session"
)

const (
	cmdCreateTeam   = "create_team"
	cmdUpdateTeam   = "update_team"
	cmdDeleteTeam   = "delete_team"
	cmdAddPlayer    = "add_player"
	cmdRemovePlayer = "remove_player"

	outcomeOK           = "ok"
	outcomeRejected     = "rejected"
	outcomeUnauthorized = "unauthenticated"
)

// Service is the command boundary for team edits. Every command requires an
// authenticated session, runs through the workspace, and reports its outcome
// to the notification sink.
type Service struct {
	ws      *workspace.Workspace
	sink    notify.Sink
	metrics *metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a Service. A nil sink discards notifications.
func NewService(ws *workspace.Workspace, sink notify.Sink, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	if sink == nil {
		sink = notify.Discard
	}
	return &Service{
		ws:      ws,
		sink:    sink,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// Teams lists every team in insertion order.
func (s *Service) Teams(ctx context.Context) ([]teams.Team, error) {
	if _, err := s.ws.Gate().Require(); err != nil {
		return nil, err
	}
	return s.ws.Engine().ListTeams(), nil
}

// Team returns a single team.
func (s *Service) Team(ctx context.Context, id teams.ID) (teams.Team, error) {
	if _, err := s.ws.Gate().Require(); err != nil {
		return teams.Team{}, err
	}
	team, ok := s.ws.Engine().Team(id)
	if !ok {
		return teams.Team{}, roster.ErrNotFound
	}
	return team, nil
}

// TeamForPlayer reports which team currently holds the player.
func (s *Service) TeamForPlayer(ctx context.Context, playerID players.ID) (teams.ID, bool, error) {
	if _, err := s.ws.Gate().Require(); err != nil {
		return "", false, err
	}
	id, ok := s.ws.Engine().FindTeamByPlayer(playerID)
	return id, ok, nil
}

// CreateTeam validates the draft and inserts a new empty team.
func (s *Service) CreateTeam(ctx context.Context, draft teams.Draft) (teams.Team, error) {
	var created teams.Team
	err := s.run(ctx, cmdCreateTeam, func(e *roster.Engine) error {
		id, err := e.CreateTeam(draft)
		if err != nil {
			return err
		}
		created, _ = e.Team(id)
		return nil
	}, slog.String("name", draft.Name))
	if err != nil {
		return teams.Team{}, err
	}
	s.success(ctx, msgTeamCreated, created.Name)
	return created, nil
}

// UpdateTeam replaces the editable fields of a team.
func (s *Service) UpdateTeam(ctx context.Context, id teams.ID, draft teams.Draft) (teams.Team, error) {
	var updated teams.Team
	err := s.run(ctx, cmdUpdateTeam, func(e *roster.Engine) error {
		if err := e.UpdateTeam(id, draft); err != nil {
			return err
		}
		updated, _ = e.Team(id)
		return nil
	}, slog.String(logging.FieldTeamID, string(id)))
	if err != nil {
		return teams.Team{}, err
	}
	s.success(ctx, msgTeamUpdated, updated.Name)
	return updated, nil
}

// DeleteTeam removes a team; its players become assignable again.
func (s *Service) DeleteTeam(ctx context.Context, id teams.ID) error {
	var name string
	err := s.run(ctx, cmdDeleteTeam, func(e *roster.Engine) error {
		if team, ok := e.Team(id); ok {
			name = team.Name
		}
		return e.DeleteTeam(id)
	}, slog.String(logging.FieldTeamID, string(id)))
	if err != nil {
		return err
	}
	s.announce(ctx, notify.SeverityWarning, msgTeamDeleted, name)
	return nil
}

// AddPlayer appends player to the team's roster.
func (s *Service) AddPlayer(ctx context.Context, id teams.ID, player players.Player) (teams.Team, error) {
	var updated teams.Team
	err := s.run(ctx, cmdAddPlayer, func(e *roster.Engine) error {
		if err := e.AddPlayerToTeam(id, player); err != nil {
			return err
		}
		updated, _ = e.Team(id)
		return nil
	},
		slog.String(logging.FieldTeamID, string(id)),
		slog.Int(logging.FieldPlayerID, int(player.ID)),
	)
	if err != nil {
		return teams.Team{}, err
	}
	s.success(ctx, msgPlayerAdded, player.DisplayName()+" joined "+updated.Name)
	return updated, nil
}

// RemovePlayer drops a player from the team's roster.
func (s *Service) RemovePlayer(ctx context.Context, id teams.ID, playerID players.ID) (teams.Team, error) {
	var updated teams.Team
	err := s.run(ctx, cmdRemovePlayer, func(e *roster.Engine) error {
		if err := e.RemovePlayerFromTeam(id, playerID); err != nil {
			return err
		}
		updated, _ = e.Team(id)
		return nil
	},
		slog.String(logging.FieldTeamID, string(id)),
		slog.Int(logging.FieldPlayerID, int(playerID)),
	)
	if err != nil {
		return teams.Team{}, err
	}
	s.success(ctx, msgPlayerRemoved, updated.Name)
	return updated, nil
}

func (s *Service) run(ctx context.Context, command string, fn func(*roster.Engine) error, attrs ...any) error {
	logger := logging.FromContext(ctx, s.logger)
	attrs = append(attrs, slog.String(logging.FieldCommand, command))

	err := s.ws.Apply(ctx, func(e *roster.Engine, g *session.Gate) error {
		if _, err := g.Require(); err != nil {
			return err
		}
		return fn(e)
	})

	switch {
	case err == nil:
		s.metrics.RecordCommand(command, outcomeOK)
		logging.Info(logger, "roster command applied", attrs...)
	case errors.Is(err, session.ErrNotAuthenticated):
		s.metrics.RecordCommand(command, outcomeUnauthorized)
		logging.Warn(logger, "roster command without session", attrs...)
	default:
		s.metrics.RecordCommand(command, outcomeRejected)
		logging.Warn(logger, "roster command rejected", append(attrs, slog.Any("err", err))...)
		n := failureNotice(err)
		n.At = s.now()
		s.sink.Notify(ctx, n)
	}
	return err
}

func (s *Service) success(ctx context.Context, title, description string) {
	s.announce(ctx, notify.SeveritySuccess, title, description)
}

func (s *Service) announce(ctx context.Context, severity notify.Severity, title, description string) {
	s.sink.Notify(ctx, notify.Notification{
		Severity:    severity,
		Title:       title,
		Description: description,
		At:          s.now(),
	})
}
