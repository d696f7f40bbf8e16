package balldontlie

import (
	"strings"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

func mapPage(resp playersResponse) providers.Page {
	data := make([]players.Player, 0, len(resp.Data))
	for _, p := range resp.Data {
		data = append(data, mapPlayer(p))
	}
	return providers.Page{
		Data: data,
		Meta: providers.Meta{
			NextCursor: resp.Meta.NextCursor,
			PerPage:    resp.Meta.PerPage,
		},
	}
}

func mapPlayer(p playerResponse) players.Player {
	return players.Player{
		ID:           players.ID(p.ID),
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Position:     p.Position,
		Height:       p.Height,
		Weight:       p.Weight,
		JerseyNumber: p.JerseyNumber,
		College:      p.College,
		Country:      p.Country,
		DraftYear:    p.DraftYear,
		DraftRound:   p.DraftRound,
		DraftNumber:  p.DraftNumber,
		Team:         mapTeam(p.Team),
	}
}

func mapTeam(t *teamResponse) *players.PlayerTeam {
	if t == nil {
		return nil
	}
	return &players.PlayerTeam{
		ID:           t.ID,
		Conference:   t.Conference,
		Division:     t.Division,
		City:         t.City,
		Name:         t.Name,
		FullName:     t.FullName,
		Abbreviation: t.Abbreviation,
	}
}
