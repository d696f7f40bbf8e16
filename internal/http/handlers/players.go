package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	appplayers "github.com/preston-bernstein/nba-roster-service/internal/app/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/feed"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// PlayersHandler serves the upstream proxy and the paged player feed.
type PlayersHandler struct {
	svc    *appplayers.Service
	logger *slog.Logger
}

// NewPlayersHandler constructs a PlayersHandler.
func NewPlayersHandler(svc *appplayers.Service, logger *slog.Logger) *PlayersHandler {
	return &PlayersHandler{svc: svc, logger: logger}
}

// Proxy forwards one page query upstream. Invalid paging values fall back to defaults.
func (h *PlayersHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	params := r.URL.Query()
	q := providers.Query{
		Page:    positiveInt(params.Get("page")),
		PerPage: positiveInt(params.Get("per_page")),
		Search:  strings.TrimSpace(params.Get("search")),
	}

	page, err := h.svc.Proxy(r.Context(), q)
	if err != nil {
		logging.Warn(logger, "player proxy failed",
			slog.Int(logging.FieldPage, q.Page),
			slog.String(logging.FieldSearch, q.Search),
			slog.Any("err", err),
		)
		writeError(w, r, http.StatusBadGateway, upstreamMessage(err), logger)
		return
	}
	if page.Data == nil {
		page.Data = []players.Player{}
	}
	writeJSON(w, http.StatusOK, page, logger)
}

// Feed returns every loaded page for the search filter.
func (h *PlayersHandler) Feed(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.svc.Feed(r.Context(), searchParam(r))
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// Next loads the following page. It answers 204 once the feed is exhausted.
func (h *PlayersHandler) Next(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.svc.Next(r.Context(), searchParam(r))
	if errors.Is(err, feed.ErrNoMorePages) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// Reset forgets the loaded pages for the search filter.
func (h *PlayersHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset(searchParam(r))
	w.WriteHeader(http.StatusNoContent)
}

func searchParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
