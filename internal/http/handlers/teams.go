package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	appteams "github.com/preston-bernstein/nba-roster-service/internal/app/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
)

// TeamsHandler exposes the roster commands and team views.
type TeamsHandler struct {
	svc    *appteams.Service
	logger *slog.Logger
}

// NewTeamsHandler constructs a TeamsHandler.
func NewTeamsHandler(svc *appteams.Service, logger *slog.Logger) *TeamsHandler {
	return &TeamsHandler{svc: svc, logger: logger}
}

// List returns every team in insertion order.
func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	list, err := h.svc.Teams(r.Context())
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, list, logger)
}

// Create validates a draft and stores a new empty team.
func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var draft teams.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	team, err := h.svc.CreateTeam(r.Context(), draft)
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, team, logger)
}

// Get returns one team.
func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	team, err := h.svc.Team(r.Context(), teamID(r))
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, team, logger)
}

// Update replaces a team's editable fields.
func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var draft teams.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	team, err := h.svc.UpdateTeam(r.Context(), teamID(r), draft)
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, team, logger)
}

// Delete removes a team.
func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTeam(r.Context(), teamID(r)); err != nil {
		writeFailure(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPlayer appends the posted player to the team's roster.
func (h *TeamsHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var player players.Player
	if err := decodeJSON(w, r, &player); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	if player.ID <= 0 {
		writeError(w, r, http.StatusBadRequest, "player id is required", logger)
		return
	}
	team, err := h.svc.AddPlayer(r.Context(), teamID(r), player)
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, team, logger)
}

// RemovePlayer drops a player from the team's roster.
func (h *TeamsHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	playerID, err := strconv.Atoi(mux.Vars(r)["playerId"])
	if err != nil || playerID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid player id", logger)
		return
	}
	team, err := h.svc.RemovePlayer(r.Context(), teamID(r), players.ID(playerID))
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, team, logger)
}

// PlayerTeam reports which team holds a player.
func (h *TeamsHandler) PlayerTeam(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	playerID, err := strconv.Atoi(mux.Vars(r)["playerId"])
	if err != nil || playerID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid player id", logger)
		return
	}
	id, ok, err := h.svc.TeamForPlayer(r.Context(), players.ID(playerID))
	if err != nil {
		writeFailure(w, r, err, logger)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "player is not on a team", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]teams.ID{"teamId": id}, logger)
}

func teamID(r *http.Request) teams.ID {
	return teams.ID(mux.Vars(r)["id"])
}
