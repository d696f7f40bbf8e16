// Package roster keeps user-created teams and their player memberships
// consistent. Every command validates and applies under one lock, so a check
// and the mutation it guards cannot interleave with another command.
package roster

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
)

// Engine owns the team collection. It is the only writer of team state.
type Engine struct {
	mu    sync.RWMutex
	teams []teams.Team

	// names maps folded team names to the owning team.
	names map[string]teams.ID
	// rostered maps each assigned player to the team holding it.
	rostered map[players.ID]teams.ID

	newID func() teams.ID
}

// NewEngine constructs an empty Engine.
func NewEngine() *Engine {
	return &Engine{
		names:    make(map[string]teams.ID),
		rostered: make(map[players.ID]teams.ID),
		newID:    func() teams.ID { return teams.ID(uuid.NewString()) },
	}
}

// CreateTeam validates the draft against the current collection and appends a
// new team with an empty roster.
func (e *Engine) CreateTeam(draft teams.Draft) (teams.ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateDraft(draft, ""); err != nil {
		return "", err
	}

	id := e.allocateID()
	e.teams = append(e.teams, teams.Team{
		ID:          id,
		Name:        draft.Name,
		PlayerCount: draft.PlayerCount,
		Region:      draft.Region,
		Country:     draft.Country,
		Players:     []players.Player{},
	})
	e.names[nameKey(draft.Name)] = id
	return id, nil
}

// UpdateTeam replaces the editable fields of a team, keeping its id and roster.
func (e *Engine) UpdateTeam(id teams.ID, draft teams.Draft) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := e.validateDraft(draft, id); err != nil {
		return err
	}

	team := &e.teams[idx]
	oldKey := nameKey(team.Name)
	team.Name = draft.Name
	team.PlayerCount = draft.PlayerCount
	team.Region = draft.Region
	team.Country = draft.Country
	if newKey := nameKey(team.Name); newKey != oldKey {
		e.names[newKey] = id
		e.releaseName(oldKey, id)
	}
	return nil
}

// DeleteTeam removes a team. Its players become assignable again.
func (e *Engine) DeleteTeam(id teams.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	team := e.teams[idx]
	for _, p := range team.Players {
		if e.rostered[p.ID] == id {
			delete(e.rostered, p.ID)
		}
	}
	e.teams = append(e.teams[:idx], e.teams[idx+1:]...)
	e.releaseName(nameKey(team.Name), id)
	return nil
}

// AddPlayerToTeam appends the player to the team roster and bumps PlayerCount.
// A player already on any roster is rejected before the team is looked up.
func (e *Engine) AddPlayerToTeam(teamID teams.ID, player players.Player) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if holder, ok := e.rostered[player.ID]; ok {
		return fmt.Errorf("%w: player %d is on team %s", ErrAlreadyRostered, player.ID, holder)
	}
	idx := e.indexOf(teamID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, teamID)
	}

	team := &e.teams[idx]
	team.Players = append(team.Players, player)
	team.PlayerCount++
	e.rostered[player.ID] = teamID
	return nil
}

// RemovePlayerFromTeam drops the player from the roster and decrements
// PlayerCount. The count is decremented even when the player was not on the
// roster, and it is not clamped at zero.
func (e *Engine) RemovePlayerFromTeam(teamID teams.ID, playerID players.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(teamID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, teamID)
	}

	team := &e.teams[idx]
	kept := team.Players[:0]
	for _, p := range team.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	team.Players = kept
	team.PlayerCount--
	if e.rostered[playerID] == teamID {
		delete(e.rostered, playerID)
	}
	return nil
}

// ListTeams returns copies of all teams in insertion order.
func (e *Engine) ListTeams() []teams.Team {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]teams.Team, 0, len(e.teams))
	for _, t := range e.teams {
		out = append(out, t.Clone())
	}
	return out
}

// Team returns a copy of a single team.
func (e *Engine) Team(id teams.ID) (teams.Team, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return teams.Team{}, false
	}
	return e.teams[idx].Clone(), true
}

// FindTeamByPlayer returns the team currently holding the player.
func (e *Engine) FindTeamByPlayer(playerID players.ID) (teams.ID, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id, ok := e.rostered[playerID]
	return id, ok
}

// Snapshot is an alias of ListTeams used by persistence.
func (e *Engine) Snapshot() []teams.Team {
	return e.ListTeams()
}

// Restore replaces the collection with previously persisted teams and rebuilds
// the indexes. Teams with an empty or repeated id are skipped; a player listed
// on more than one team is indexed against the first.
func (e *Engine) Restore(items []teams.Team) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.teams = make([]teams.Team, 0, len(items))
	e.names = make(map[string]teams.ID, len(items))
	e.rostered = make(map[players.ID]teams.ID)

	seen := make(map[teams.ID]struct{}, len(items))
	for _, t := range items {
		if t.ID == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}

		t = t.Clone()
		e.teams = append(e.teams, t)
		if _, taken := e.names[nameKey(t.Name)]; !taken {
			e.names[nameKey(t.Name)] = t.ID
		}
		for _, p := range t.Players {
			if _, taken := e.rostered[p.ID]; !taken {
				e.rostered[p.ID] = t.ID
			}
		}
	}
}

// releaseName drops key from the name index if id holds it. A restored team
// still carrying an equal name then takes the entry over.
func (e *Engine) releaseName(key string, id teams.ID) {
	if holder, ok := e.names[key]; !ok || holder != id {
		return
	}
	delete(e.names, key)
	for _, t := range e.teams {
		if t.ID != id && nameKey(t.Name) == key {
			e.names[key] = t.ID
			return
		}
	}
}

func (e *Engine) indexOf(id teams.ID) int {
	for i := range e.teams {
		if e.teams[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) allocateID() teams.ID {
	for {
		id := e.newID()
		if id != "" && e.indexOf(id) < 0 {
			return id
		}
	}
}
