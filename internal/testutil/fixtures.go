package testutil

import (
	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
)

// SamplePlayer returns a minimal player fixture with the provided id and name.
func SamplePlayer(id int, first, last string) players.Player {
	return players.Player{
		ID:        players.ID(id),
		FirstName: first,
		LastName:  last,
		Position:  "G",
		Country:   "USA",
		Team: &players.PlayerTeam{
			ID:           14,
			Conference:   "West",
			Division:     "Pacific",
			City:         "Los Angeles",
			Name:         "Lakers",
			FullName:     "Los Angeles Lakers",
			Abbreviation: "LAL",
		},
	}
}

// SamplePlayers returns n distinct players with ids starting at 1.
func SamplePlayers(n int) []players.Player {
	out := make([]players.Player, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, SamplePlayer(i, "Player", string(rune('A'+(i-1)%26))))
	}
	return out
}
