package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"

	appplayers "github.com/preston-bernstein/nba-roster-service/internal/app/players"
	appsession "github.com/preston-bernstein/nba-roster-service/internal/app/session"
	appteams "github.com/preston-bernstein/nba-roster-service/internal/app/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/app/workspace"
	"github.com/preston-bernstein/nba-roster-service/internal/feed"
	"github.com/preston-bernstein/nba-roster-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/notify"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
	"github.com/preston-bernstein/nba-roster-service/internal/providers/fixture"
)

type testAPI struct {
	ws      *workspace.Workspace
	notices *notify.Recorder
	tokens  *middleware.SessionTokens
	session *SessionHandler
	teams   *TeamsHandler
	players *PlayersHandler
}

func newTestAPI(t *testing.T, source providers.PlayerProvider) *testAPI {
	t.Helper()
	if source == nil {
		source = fixture.New()
	}
	ws := workspace.New(nil)
	ws.Load(context.Background())
	rec := metrics.NewRecorder()
	notices := &notify.Recorder{}
	tokens, err := middleware.NewSessionTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	return &testAPI{
		ws:      ws,
		notices: notices,
		tokens:  tokens,
		session: NewSessionHandler(appsession.NewService(ws, rec, nil), tokens, "roster_session", nil),
		teams:   NewTeamsHandler(appteams.NewService(ws, notices, rec, nil), nil),
		players: NewPlayersHandler(appplayers.NewService(source, feed.NewClient(source, providers.DefaultPerPage, nil), ws), nil),
	}
}

func (a *testAPI) login(t *testing.T, username string) {
	t.Helper()
	svc := appsession.NewService(a.ws, nil, nil)
	if _, err := svc.Login(context.Background(), username); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func withVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}
