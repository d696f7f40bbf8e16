package balldontlie

type playersResponse struct {
	Data []playerResponse `json:"data"`
	Meta metaResponse     `json:"meta"`
}

type playerResponse struct {
	ID           int           `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Position     string        `json:"position"`
	Height       string        `json:"height"`
	Weight       string        `json:"weight"`
	JerseyNumber *string       `json:"jersey_number"`
	College      *string       `json:"college"`
	Country      string        `json:"country"`
	DraftYear    *int          `json:"draft_year"`
	DraftRound   *int          `json:"draft_round"`
	DraftNumber  *int          `json:"draft_number"`
	Team         *teamResponse `json:"team"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type metaResponse struct {
	NextCursor *float64 `json:"next_cursor"`
	PerPage    int      `json:"per_page"`
}
