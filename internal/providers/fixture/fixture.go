package fixture

import (
	"context"
	"strings"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// Provider serves a static player list with the same paging contract as the
// upstream API. Useful for local runs without an API key.
type Provider struct {
	roster []players.Player
}

// New creates a fixture provider over the built-in roster.
func New() *Provider {
	return &Provider{roster: defaultRoster()}
}

// NewWithPlayers creates a fixture provider over the given players.
func NewWithPlayers(list []players.Player) *Provider {
	return &Provider{roster: append([]players.Player(nil), list...)}
}

// FetchPlayers returns one page of players matching the search term. The
// next cursor is the following page number, or nil on the last page.
func (p *Provider) FetchPlayers(ctx context.Context, q providers.Query) (providers.Page, error) {
	if err := ctx.Err(); err != nil {
		return providers.Page{}, err
	}
	q = q.Normalize()

	matches := p.filter(q.Search)
	start := (q.Page - 1) * q.PerPage
	if start > len(matches) {
		start = len(matches)
	}
	end := start + q.PerPage
	if end > len(matches) {
		end = len(matches)
	}

	page := providers.Page{
		Data: append([]players.Player{}, matches[start:end]...),
		Meta: providers.Meta{PerPage: q.PerPage},
	}
	if end < len(matches) {
		page.Meta.NextCursor = providers.Cursor(float64(q.Page + 1))
	}
	return page, nil
}

func (p *Provider) filter(search string) []players.Player {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return p.roster
	}
	out := make([]players.Player, 0, len(p.roster))
	for _, pl := range p.roster {
		if strings.Contains(strings.ToLower(pl.DisplayName()), term) {
			out = append(out, pl)
		}
	}
	return out
}

func defaultRoster() []players.Player {
	lal := &players.PlayerTeam{ID: 14, Conference: "West", Division: "Pacific", City: "Los Angeles", Name: "Lakers", FullName: "Los Angeles Lakers", Abbreviation: "LAL"}
	bos := &players.PlayerTeam{ID: 2, Conference: "East", Division: "Atlantic", City: "Boston", Name: "Celtics", FullName: "Boston Celtics", Abbreviation: "BOS"}
	gsw := &players.PlayerTeam{ID: 10, Conference: "West", Division: "Pacific", City: "Golden State", Name: "Warriors", FullName: "Golden State Warriors", Abbreviation: "GSW"}
	mia := &players.PlayerTeam{ID: 16, Conference: "East", Division: "Southeast", City: "Miami", Name: "Heat", FullName: "Miami Heat", Abbreviation: "MIA"}
	den := &players.PlayerTeam{ID: 8, Conference: "West", Division: "Northwest", City: "Denver", Name: "Nuggets", FullName: "Denver Nuggets", Abbreviation: "DEN"}
	mil := &players.PlayerTeam{ID: 17, Conference: "East", Division: "Central", City: "Milwaukee", Name: "Bucks", FullName: "Milwaukee Bucks", Abbreviation: "MIL"}

	type row struct {
		id               int
		first, last, pos string
		height, weight   string
		jersey, country  string
		draft            int
		team             *players.PlayerTeam
	}
	rows := []row{
		{237, "LeBron", "James", "F", "6-9", "250", "23", "USA", 2003, lal},
		{140, "Anthony", "Davis", "F-C", "6-10", "253", "3", "USA", 2012, lal},
		{434, "Jayson", "Tatum", "F", "6-8", "210", "0", "USA", 2017, bos},
		{65, "Jaylen", "Brown", "G-F", "6-6", "223", "7", "USA", 2016, bos},
		{115, "Stephen", "Curry", "G", "6-2", "185", "30", "USA", 2009, gsw},
		{185, "Draymond", "Green", "F", "6-6", "230", "23", "USA", 2012, gsw},
		{79, "Jimmy", "Butler", "F", "6-7", "230", "22", "USA", 2011, mia},
		{4, "Bam", "Adebayo", "C-F", "6-9", "255", "13", "USA", 2017, mia},
		{246, "Nikola", "Jokic", "C", "6-11", "284", "15", "Serbia", 2014, den},
		{278, "Jamal", "Murray", "G", "6-4", "215", "27", "Canada", 2016, den},
		{15, "Giannis", "Antetokounmpo", "F", "6-11", "243", "34", "Greece", 2013, mil},
		{274, "Damian", "Lillard", "G", "6-2", "195", "0", "USA", 2012, mil},
		{666786, "Victor", "Wembanyama", "C", "7-4", "210", "1", "France", 2023, nil},
		{17896075, "Chet", "Holmgren", "C", "7-1", "208", "7", "USA", 2022, nil},
		{3547238, "Luka", "Doncic", "G-F", "6-7", "230", "77", "Slovenia", 2018, lal},
		{145, "Kevin", "Durant", "F", "6-11", "240", "35", "USA", 2007, nil},
		{57, "Devin", "Booker", "G", "6-6", "206", "1", "USA", 2015, nil},
		{3547254, "Shai", "Gilgeous-Alexander", "G", "6-6", "195", "2", "Canada", 2018, nil},
		{322, "Kawhi", "Leonard", "F", "6-7", "225", "2", "USA", 2011, nil},
		{192, "James", "Harden", "G", "6-5", "220", "1", "USA", 2009, nil},
		{666969, "Anthony", "Edwards", "G", "6-4", "225", "5", "USA", 2020, nil},
		{367, "Joel", "Embiid", "C", "7-0", "280", "21", "Cameroon", 2014, nil},
		{3547239, "Trae", "Young", "G", "6-1", "164", "11", "USA", 2018, nil},
		{666956, "Tyrese", "Haliburton", "G", "6-5", "185", "0", "USA", 2020, nil},
		{38017683, "Paolo", "Banchero", "F", "6-10", "250", "5", "USA", 2022, nil},
	}

	out := make([]players.Player, 0, len(rows))
	for _, r := range rows {
		jersey := r.jersey
		draft := r.draft
		out = append(out, players.Player{
			ID:           players.ID(r.id),
			FirstName:    r.first,
			LastName:     r.last,
			Position:     r.pos,
			Height:       r.height,
			Weight:       r.weight,
			JerseyNumber: &jersey,
			Country:      r.country,
			DraftYear:    &draft,
			Team:         r.team,
		})
	}
	return out
}
