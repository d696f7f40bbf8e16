package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	appplayers "github.com/preston-bernstein/nba-roster-service/internal/app/players"
	appsession "github.com/preston-bernstein/nba-roster-service/internal/app/session"
	appteams "github.com/preston-bernstein/nba-roster-service/internal/app/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/app/workspace"
	"github.com/preston-bernstein/nba-roster-service/internal/config"
	"github.com/preston-bernstein/nba-roster-service/internal/feed"
	httpserver "github.com/preston-bernstein/nba-roster-service/internal/http"
	"github.com/preston-bernstein/nba-roster-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-roster-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
	"github.com/preston-bernstein/nba-roster-service/internal/notify"
	"github.com/preston-bernstein/nba-roster-service/internal/persistence"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	workspace     *workspace.Workspace
	hub           *notify.Hub
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	closers       []func() error
}

// New constructs a server with the configured provider and storage.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	storage, closeStorage, err := buildStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	provider, release := newProviderFactory(logger, recorder).build(cfg)

	srv, err := newServerWithDeps(cfg, logger, recorder, provider, storage)
	if err != nil {
		release()
		_ = closeStorage()
		return nil, err
	}
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	srv.closers = append(srv.closers, closeStorage, func() error { release(); return nil })
	return srv, nil
}

// newServerWithDeps wires services and routes around injected components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, provider providers.PlayerProvider, storage persistence.Provider) (*Server, error) {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	ws := workspace.New(persistence.NewBridge(storage, logger, recorder))
	hub := notify.NewHub(notify.HubConfig{CheckOrigin: originChecker(cfg.AllowedOrigins)}, logger)
	sink := notify.Fanout{
		notify.LogSink{Logger: logger},
		notify.MetricsSink{Recorder: recorder},
		hub,
	}

	sessions := appsession.NewService(ws, recorder, logger)
	feedClient := feed.NewClient(provider, cfg.Balldontlie.PerPage, logger)
	tokens, err := middleware.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		logger.Warn("session secret not set, using a per-process key")
	}

	router := httpserver.NewRouter(httpserver.Routes{
		Health:        handlers.NewHealthHandler(ws.Loaded, logger),
		Session:       handlers.NewSessionHandler(sessions, tokens, cfg.Session.CookieName, logger),
		Teams:         handlers.NewTeamsHandler(appteams.NewService(ws, sink, recorder, logger), logger),
		Players:       handlers.NewPlayersHandler(appplayers.NewService(provider, feedClient, ws), logger),
		Notifications: hub,
		RequireAuth:   middleware.RequireSession(tokens, sessions, cfg.Session.CookieName, logger),
		Logger:        logger,
		Metrics:       recorder,
	})

	return &Server{
		cfg:       cfg,
		logger:    logger,
		metrics:   recorder,
		workspace: ws,
		hub:       hub,
		httpServer: netHTTPServer{srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		}},
	}, nil
}

// Run loads persisted state, starts the HTTP servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	state := s.workspace.Load(ctx)
	if s.logger != nil {
		s.logger.Info("state loaded",
			slog.Int(logging.FieldCount, len(state.Teams)),
			slog.Bool("authenticated", state.Session.Authenticated),
		)
	}
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && s.logger != nil {
			s.logger.Warn("resource close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// originChecker accepts same-origin websocket requests plus the listed origins.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			set[strings.ToLower(o)] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.ToLower(strings.TrimRight(origin, "/"))]
		return ok
	}
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
