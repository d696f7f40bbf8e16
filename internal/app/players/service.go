package players

import (
	"context"
	"errors"

	"github.com/preston-bernstein/nba-roster-service/internal/app/workspace"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/feed"
	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// Row is one player in the feed with the local team currently holding it.
type Row struct {
	players.Player
	RosteredOn teams.ID `json:"rostered_on,omitempty"`
}

// View is everything loaded so far for one search filter.
type View struct {
	Search  string `json:"search"`
	Pages   int    `json:"pages"`
	Players []Row  `json:"players"`
	HasNext bool   `json:"has_next"`
}

// Service exposes the upstream proxy and the session-gated player feed.
type Service struct {
	proxy providers.PlayerProvider
	feed  *feed.Client
	ws    *workspace.Workspace
}

func NewService(proxy providers.PlayerProvider, client *feed.Client, ws *workspace.Workspace) *Service {
	return &Service{proxy: proxy, feed: client, ws: ws}
}

// Proxy forwards one page query upstream. It is not session gated.
func (s *Service) Proxy(ctx context.Context, q providers.Query) (providers.Page, error) {
	if s.proxy == nil {
		return providers.Page{}, providers.ErrProviderUnavailable
	}
	return s.proxy.FetchPlayers(ctx, q.Normalize())
}

// Feed returns the loaded pages for search, loading the first page when none
// has been fetched yet.
func (s *Service) Feed(ctx context.Context, search string) (View, error) {
	if _, err := s.ws.Gate().Require(); err != nil {
		return View{}, err
	}
	if len(s.feed.Pages(search)) == 0 {
		if _, err := s.feed.FetchNext(ctx, search); err != nil && !errors.Is(err, feed.ErrFetchInProgress) {
			return View{}, err
		}
	}
	return s.view(search), nil
}

// Next loads the following page. Callers get feed.ErrNoMorePages at the end
// and feed.ErrFetchInProgress while another load is outstanding.
func (s *Service) Next(ctx context.Context, search string) (View, error) {
	if _, err := s.ws.Gate().Require(); err != nil {
		return View{}, err
	}
	if _, err := s.feed.FetchNext(ctx, search); err != nil {
		return View{}, err
	}
	return s.view(search), nil
}

// Reset forgets the loaded pages for search.
func (s *Service) Reset(search string) {
	s.feed.Reset(search)
}

func (s *Service) view(search string) View {
	pages := s.feed.Pages(search)
	engine := s.ws.Engine()
	rows := []Row{}
	for _, p := range pages {
		for _, pl := range p.Players {
			row := Row{Player: pl}
			if id, ok := engine.FindTeamByPlayer(pl.ID); ok {
				row.RosteredOn = id
			}
			rows = append(rows, row)
		}
	}
	return View{
		Search:  search,
		Pages:   len(pages),
		Players: rows,
		HasNext: s.feed.HasNext(search),
	}
}
