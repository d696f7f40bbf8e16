package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/nba-roster-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-roster-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
)

// Routes bundles the handlers and guards the router mounts.
type Routes struct {
	Health        *handlers.HealthHandler
	Session       *handlers.SessionHandler
	Teams         *handlers.TeamsHandler
	Players       *handlers.PlayersHandler
	Notifications nethttp.Handler
	RequireAuth   mux.MiddlewareFunc
	Logger        *slog.Logger
	Metrics       *metrics.Recorder
}

// NewRouter registers HTTP routes on a gorilla/mux router.
func NewRouter(rt Routes) nethttp.Handler {
	logging := middleware.Logging(rt.Logger, rt.Metrics)

	router := mux.NewRouter()
	router.Use(logging)
	router.NotFoundHandler = logging(handlers.NotFound(rt.Logger))
	router.MethodNotAllowedHandler = logging(handlers.MethodNotAllowed(rt.Logger))

	router.HandleFunc("/health", rt.Health.Health).Methods(nethttp.MethodGet)
	router.HandleFunc("/ready", rt.Health.Ready).Methods(nethttp.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/players", rt.Players.Proxy).Methods(nethttp.MethodGet)
	api.HandleFunc("/session", rt.Session.Get).Methods(nethttp.MethodGet)
	api.HandleFunc("/session", rt.Session.Login).Methods(nethttp.MethodPost)
	api.HandleFunc("/session", rt.Session.Logout).Methods(nethttp.MethodDelete)

	gated := api.NewRoute().Subrouter()
	if rt.RequireAuth != nil {
		gated.Use(rt.RequireAuth)
	}
	gated.HandleFunc("/feed", rt.Players.Feed).Methods(nethttp.MethodGet)
	gated.HandleFunc("/feed", rt.Players.Reset).Methods(nethttp.MethodDelete)
	gated.HandleFunc("/feed/next", rt.Players.Next).Methods(nethttp.MethodPost)
	gated.HandleFunc("/teams", rt.Teams.List).Methods(nethttp.MethodGet)
	gated.HandleFunc("/teams", rt.Teams.Create).Methods(nethttp.MethodPost)
	gated.HandleFunc("/teams/{id}", rt.Teams.Get).Methods(nethttp.MethodGet)
	gated.HandleFunc("/teams/{id}", rt.Teams.Update).Methods(nethttp.MethodPut)
	gated.HandleFunc("/teams/{id}", rt.Teams.Delete).Methods(nethttp.MethodDelete)
	gated.HandleFunc("/teams/{id}/players", rt.Teams.AddPlayer).Methods(nethttp.MethodPost)
	gated.HandleFunc("/teams/{id}/players/{playerId:[0-9]+}", rt.Teams.RemovePlayer).Methods(nethttp.MethodDelete)
	gated.HandleFunc("/players/{playerId:[0-9]+}/team", rt.Teams.PlayerTeam).Methods(nethttp.MethodGet)

	if rt.Notifications != nil {
		router.Handle("/ws/notifications", rt.Notifications).Methods(nethttp.MethodGet)
	}
	return router
}
