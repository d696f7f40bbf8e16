package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-roster-service/internal/config"
	"github.com/preston-bernstein/nba-roster-service/internal/persistence"
	"github.com/preston-bernstein/nba-roster-service/internal/providers/fixture"
	"github.com/preston-bernstein/nba-roster-service/internal/testutil"
)

func testConfig() config.Config {
	cfg := config.Config{
		Port:     "0",
		Provider: config.ProviderFixture,
		Storage:  config.StorageConfig{Driver: config.StorageMemory},
	}
	cfg.Balldontlie.PerPage = 10
	cfg.Session.Secret = "server-secret"
	cfg.Session.TTL = time.Hour
	cfg.Session.CookieName = "roster_session"
	return cfg
}

func newTestServer(t *testing.T, storage persistence.Provider) *Server {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	srv, err := newServerWithDeps(testConfig(), logger, nil, fixture.New(), storage)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func TestServerServesHealthAndTeams(t *testing.T) {
	srv := newTestServer(t, persistence.NewMemoryProvider())
	h := srv.Handler()

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	srv.workspace.Load(context.Background())
	rr = testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(h, http.MethodPost, "/api/session", strings.NewReader(`{"username":"scout"}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader(`{"name":"Sharks","playerCount":1,"region":"West","country":"USA"}`))
	req.AddCookie(cookies[0])
	rr = testutil.ServeRequest(h, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestServerPersistsAcrossRestart(t *testing.T) {
	storage := persistence.NewMemoryProvider()
	first := newTestServer(t, storage)
	first.workspace.Load(context.Background())
	h := first.Handler()

	rr := testutil.Serve(h, http.MethodPost, "/api/session", strings.NewReader(`{"username":"scout"}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	req := httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader(`{"name":"Sharks","playerCount":1,"region":"West","country":"USA"}`))
	req.AddCookie(rr.Result().Cookies()[0])
	testutil.AssertStatus(t, testutil.ServeRequest(h, req), http.StatusCreated)

	second := newTestServer(t, storage)
	state := second.workspace.Load(context.Background())
	if !state.Session.Authenticated || state.Session.Username != "scout" {
		t.Fatalf("expected restored session, got %+v", state.Session)
	}
	if len(state.Teams) != 1 || state.Teams[0].Name != "Sharks" {
		t.Fatalf("expected restored team, got %+v", state.Teams)
	}
}

func TestServerRunStartsAndStops(t *testing.T) {
	srv := newTestServer(t, nil)
	httpStub := &testutil.StubHTTPServer{AddrVal: ":0"}
	metricsStub := &testutil.StubHTTPServer{AddrVal: ":9"}
	srv.httpServer = httpStub
	srv.metricsServer = metricsStub
	stopped := 0
	srv.metricsStop = func(context.Context) error { stopped++; return nil }
	closed := 0
	srv.closers = []func() error{func() error { closed++; return errors.New("close failed") }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.Run(ctx, cancel)

	if !srv.workspace.Loaded() {
		t.Fatalf("expected workspace loaded during run")
	}
	if httpStub.ShutdownCalls != 1 || metricsStub.ShutdownCalls != 1 {
		t.Fatalf("expected both servers shut down, got http=%d metrics=%d", httpStub.ShutdownCalls, metricsStub.ShutdownCalls)
	}
	if stopped != 1 || closed != 1 {
		t.Fatalf("expected metrics stop and closers to run, got %d %d", stopped, closed)
	}
}

func TestServerStopsWhenHTTPServerFails(t *testing.T) {
	srv := newTestServer(t, nil)
	failing := &testutil.ErrHTTPServer{}
	srv.httpServer = failing

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected run to exit after listen failure")
	}
	if failing.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown after failure")
	}
}

func TestGracefulShutdownTimesOut(t *testing.T) {
	orig := shutdownTimeout
	shutdownTimeout = 20 * time.Millisecond
	defer func() { shutdownTimeout = orig }()

	srv := newTestServer(t, nil)
	blocking := &testutil.BlockingHTTPServer{Unblock: make(chan struct{})}
	srv.httpServer = blocking

	start := time.Now()
	srv.gracefulShutdown()
	if time.Since(start) > time.Second {
		t.Fatalf("expected shutdown to respect timeout")
	}
	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown attempt")
	}
}

func TestNewRejectsBadStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "tape"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected storage error")
	}
}

func TestNewBuildsFromConfig(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = metricsSetupSuccess

	cfg := testConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = "0"
	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if srv.metricsServer == nil || srv.metricsStop == nil || len(srv.closers) != 2 {
		t.Fatalf("expected metrics and closers wired, got %+v", srv)
	}
	for _, c := range srv.closers {
		_ = c()
	}
}

func TestLaunchServerReportsOnlyRealFailures(t *testing.T) {
	failures := make(chan error, 2)
	onError := func(err error) { failures <- err }

	closed := &testutil.CloseableHTTPServer{}
	launchServer("closed", closed, nil, onError)
	launchServer("broken", &testutil.ErrHTTPServer{}, nil, onError)

	select {
	case err := <-failures:
		if errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed to be ignored")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected listen failure to be reported")
	}
	select {
	case err := <-failures:
		t.Fatalf("unexpected second failure %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	if err := closed.Shutdown(context.Background()); err != nil || closed.ShutdownCalls != 1 {
		t.Fatalf("unexpected shutdown state %v %d", err, closed.ShutdownCalls)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://roster.example.com/", " "})

	req := httptest.NewRequest(http.MethodGet, "http://localhost:4000/ws/notifications", nil)
	if !check(req) {
		t.Fatalf("expected missing origin to pass")
	}
	req.Header.Set("Origin", "http://localhost:4000")
	if !check(req) {
		t.Fatalf("expected same origin to pass")
	}
	req.Header.Set("Origin", "https://roster.example.com")
	if !check(req) {
		t.Fatalf("expected allow-listed origin to pass")
	}
	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Fatalf("expected foreign origin to be rejected")
	}
}
