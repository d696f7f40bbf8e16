package teams

import "github.com/preston-bernstein/nba-roster-service/internal/domain/players"

// ID identifies a user-created team. Allocated locally and never reused.
type ID string

// Team is a user-organized roster. PlayerCount is the declared headcount
// from the team form; it moves by one on roster edits but is never
// recomputed from len(Players).
type Team struct {
	ID          ID               `json:"id"`
	Name        string           `json:"name"`
	PlayerCount int              `json:"playerCount"`
	Region      string           `json:"region"`
	Country     string           `json:"country"`
	Players     []players.Player `json:"players"`
}

// Draft is the editable part of a team, as submitted by the team form.
type Draft struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Region      string `json:"region"`
	Country     string `json:"country"`
}

// Draft returns the editable fields of the team.
func (t Team) Draft() Draft {
	return Draft{
		Name:        t.Name,
		PlayerCount: t.PlayerCount,
		Region:      t.Region,
		Country:     t.Country,
	}
}

// HasPlayer reports whether the player id is on this roster.
func (t Team) HasPlayer(id players.ID) bool {
	for _, p := range t.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no roster storage with t.
func (t Team) Clone() Team {
	out := t
	out.Players = make([]players.Player, len(t.Players))
	copy(out.Players, t.Players)
	return out
}
