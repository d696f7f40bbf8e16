package feed

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// Page is one loaded page of a feed. NextCursor is the upstream continuation
// marker returned with it.
type Page struct {
	Number     int              `json:"page"`
	Players    []players.Player `json:"players"`
	NextCursor *float64         `json:"next_cursor"`
}

// Client pages through players from a PlayerProvider and caches every loaded
// page per search filter until Reset.
type Client struct {
	source  providers.PlayerProvider
	perPage int
	logger  *slog.Logger
	group   singleflight.Group

	mu    sync.Mutex
	feeds map[string]*feedState
}

type feedState struct {
	pages    map[int]Page
	inFlight atomic.Bool
}

// NewClient builds a feed client. A non-positive perPage uses providers.DefaultPerPage.
func NewClient(source providers.PlayerProvider, perPage int, logger *slog.Logger) *Client {
	if perPage <= 0 {
		perPage = providers.DefaultPerPage
	}
	return &Client{
		source:  source,
		perPage: perPage,
		logger:  logger,
		feeds:   make(map[string]*feedState),
	}
}

// FetchPage returns the given page for filter, fetching it only if it has not
// been loaded yet. Failed fetches leave the cache untouched.
func (c *Client) FetchPage(ctx context.Context, page int, filter string) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	state := c.state(filter)
	if p, ok := c.cached(state, page); ok {
		return p, nil
	}

	key := filter + "\x00" + strconv.Itoa(page)
	v, err, _ := c.group.Do(key, func() (any, error) {
		if p, ok := c.cached(state, page); ok {
			return p, nil
		}
		return c.load(ctx, state, page, filter)
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

// FetchNext loads the page after the last contiguous loaded page. Only one
// FetchNext per filter runs at a time; overlapping calls get ErrFetchInProgress.
func (c *Client) FetchNext(ctx context.Context, filter string) (Page, error) {
	state := c.state(filter)
	if !state.inFlight.CompareAndSwap(false, true) {
		return Page{}, ErrFetchInProgress
	}
	defer state.inFlight.Store(false)

	next, ok := c.nextToken(state)
	if !ok {
		return Page{}, ErrNoMorePages
	}
	return c.FetchPage(ctx, next, filter)
}

// HasNext reports whether FetchNext would request another page.
func (c *Client) HasNext(filter string) bool {
	_, ok := c.nextToken(c.state(filter))
	return ok
}

// Pages returns the contiguous run of loaded pages starting at page 1.
func (c *Client) Pages(filter string) []Page {
	state := c.state(filter)
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Page, 0, len(state.pages))
	for n := 1; ; n++ {
		p, ok := state.pages[n]
		if !ok {
			break
		}
		out = append(out, clonePage(p))
	}
	return out
}

// Players flattens Pages into one list in page order.
func (c *Client) Players(filter string) []players.Player {
	out := []players.Player{}
	for _, p := range c.Pages(filter) {
		out = append(out, p.Players...)
	}
	return out
}

// Reset forgets every page loaded for filter. Fetches still in flight for the
// old cache complete but are discarded.
func (c *Client) Reset(filter string) {
	c.mu.Lock()
	delete(c.feeds, filter)
	c.mu.Unlock()
}

func (c *Client) load(ctx context.Context, state *feedState, page int, filter string) (Page, error) {
	if c.source == nil {
		return Page{}, &UnavailableError{Message: providers.ErrProviderUnavailable.Error(), Err: providers.ErrProviderUnavailable}
	}
	logger := logging.FromContext(ctx, c.logger)
	resp, err := c.source.FetchPlayers(ctx, providers.Query{Page: page, PerPage: c.perPage, Search: filter})
	if err != nil {
		logging.Warn(logger, "player page fetch failed",
			slog.Int(logging.FieldPage, page),
			slog.String(logging.FieldSearch, filter),
			slog.Any("err", err),
		)
		return Page{}, unavailable(err)
	}

	p := Page{Number: page, Players: resp.Data, NextCursor: resp.Meta.NextCursor}
	if p.Players == nil {
		p.Players = []players.Player{}
	}

	c.mu.Lock()
	if c.feeds[filter] == state {
		state.pages[page] = p
	}
	c.mu.Unlock()

	if logger != nil {
		logger.Debug("player page loaded",
			slog.Int(logging.FieldPage, page),
			slog.String(logging.FieldSearch, filter),
			slog.Int(logging.FieldCount, len(p.Players)),
		)
	}
	return clonePage(p), nil
}

func (c *Client) state(filter string) *feedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.feeds[filter]
	if !ok {
		state = &feedState{pages: make(map[int]Page)}
		c.feeds[filter] = state
	}
	return state
}

func (c *Client) cached(state *feedState, page int) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := state.pages[page]
	if !ok {
		return Page{}, false
	}
	return clonePage(p), true
}

// nextToken applies the continuation rule: the next page is len(pages)+1 while
// the last page carried a cursor and len(pages)+1 <= ceil(cursor).
func (c *Client) nextToken(state *feedState) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loaded := 0
	for {
		if _, ok := state.pages[loaded+1]; !ok {
			break
		}
		loaded++
	}
	if loaded == 0 {
		return 1, true
	}
	cursor := state.pages[loaded].NextCursor
	if cursor == nil {
		return 0, false
	}
	next := loaded + 1
	if float64(next) > math.Ceil(*cursor) {
		return 0, false
	}
	return next, true
}

func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UnavailableError{
		StatusCode: providers.UpstreamStatus(err),
		Message:    err.Error(),
		Err:        err,
	}
}

func clonePage(p Page) Page {
	p.Players = append([]players.Player{}, p.Players...)
	return p
}
