package players

// ID is the upstream-assigned player identifier.
type ID int

// Player is the balldontlie player shape. Field names keep the upstream keys so
// proxied pages and persisted rosters share one encoding.
type Player struct {
	ID           ID          `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Position     string      `json:"position"`
	Height       string      `json:"height"`
	Weight       string      `json:"weight"`
	JerseyNumber *string     `json:"jersey_number"`
	College      *string     `json:"college"`
	Country      string      `json:"country"`
	DraftYear    *int        `json:"draft_year"`
	DraftRound   *int        `json:"draft_round"`
	DraftNumber  *int        `json:"draft_number"`
	Team         *PlayerTeam `json:"team"`
}

// PlayerTeam is the NBA franchise a player is signed to upstream.
type PlayerTeam struct {
	ID           int    `json:"id"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	City         string `json:"city"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

// DisplayName joins first and last name.
func (p Player) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
