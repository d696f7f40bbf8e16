package providers

import (
	"context"
	"strconv"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
)

const (
	// DefaultPerPage mirrors the page size the roster views request.
	DefaultPerPage = 10
	// MaxPerPage is the largest page size balldontlie serves.
	MaxPerPage = 100
)

// Query selects one page of players from an upstream source.
type Query struct {
	Page    int
	PerPage int
	Search  string
}

// Normalize replaces non-positive paging values with defaults and caps the
// page size at MaxPerPage.
func (q Query) Normalize() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

// Key identifies the query for caching.
func (q Query) Key() string {
	return strconv.Itoa(q.Page) + "|" + strconv.Itoa(q.PerPage) + "|" + q.Search
}

// Meta carries the upstream continuation cursor. A nil NextCursor means no
// further pages exist.
type Meta struct {
	NextCursor *float64 `json:"next_cursor"`
	PerPage    int      `json:"per_page,omitempty"`
}

// Page is one upstream response.
type Page struct {
	Data []players.Player `json:"data"`
	Meta Meta             `json:"meta"`
}

// PlayerProvider fetches pages of players from an upstream source.
type PlayerProvider interface {
	FetchPlayers(ctx context.Context, q Query) (Page, error)
}

// Cursor is a convenience for building a non-nil NextCursor.
func Cursor(v float64) *float64 {
	return &v
}
