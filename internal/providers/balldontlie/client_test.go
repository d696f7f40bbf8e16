package balldontlie

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
	}
}

func clientWith(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "https://example.test/v1/",
		APIKey:     "secret-key",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestFetchPlayersHitsAPIAndMapsResponse(t *testing.T) {
	var captured *http.Request
	client := clientWith(func(req *http.Request) (*http.Response, error) {
		captured = req
		return respond(http.StatusOK, `{
			"data": [
				{
					"id": 237,
					"first_name": "LeBron",
					"last_name": "James",
					"position": "F",
					"height": "6-9",
					"weight": "250",
					"jersey_number": "23",
					"college": "St. Vincent-St. Mary HS (OH)",
					"country": "USA",
					"draft_year": 2003,
					"draft_round": 1,
					"draft_number": 1,
					"team": {"id": 14, "conference": "West", "division": "Pacific", "city": "Los Angeles", "name": "Lakers", "full_name": "Los Angeles Lakers", "abbreviation": "LAL"}
				},
				{"id": 1, "first_name": "Free", "last_name": "Agent", "team": null}
			],
			"meta": {"next_cursor": 238, "per_page": 2}
		}`, nil), nil
	})

	page, err := client.FetchPlayers(context.Background(), providers.Query{Page: 2, PerPage: 2, Search: "james"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if captured.URL.Path != "/v1/players" {
		t.Fatalf("expected /v1/players path, got %s", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("page") != "2" || q.Get("per_page") != "2" || q.Get("search") != "james" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
	if got := captured.Header.Get("Authorization"); got != "secret-key" {
		t.Fatalf("expected raw api key header, got %q", got)
	}

	if len(page.Data) != 2 {
		t.Fatalf("expected 2 players, got %d", len(page.Data))
	}
	lebron := page.Data[0]
	if lebron.ID != 237 || lebron.DisplayName() != "LeBron James" || lebron.Team == nil || lebron.Team.Abbreviation != "LAL" {
		t.Fatalf("unexpected mapped player %+v", lebron)
	}
	if lebron.DraftYear == nil || *lebron.DraftYear != 2003 {
		t.Fatalf("expected draft year mapped")
	}
	if page.Data[1].Team != nil {
		t.Fatalf("expected nil team for free agent")
	}
	if page.Meta.NextCursor == nil || *page.Meta.NextCursor != 238 {
		t.Fatalf("expected next cursor 238, got %v", page.Meta.NextCursor)
	}
}

func TestFetchPlayersOmitsEmptySearchAndDefaultsPaging(t *testing.T) {
	var raw string
	client := clientWith(func(req *http.Request) (*http.Response, error) {
		raw = req.URL.RawQuery
		return respond(http.StatusOK, `{"data": [], "meta": {"next_cursor": null}}`, nil), nil
	})

	page, err := client.FetchPlayers(context.Background(), providers.Query{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if strings.Contains(raw, "search") {
		t.Fatalf("expected no search param, got %s", raw)
	}
	if !strings.Contains(raw, "page=1") || !strings.Contains(raw, "per_page=10") {
		t.Fatalf("expected default paging, got %s", raw)
	}
	if page.Meta.NextCursor != nil || page.Data == nil {
		t.Fatalf("expected empty terminal page, got %+v", page)
	}
}

func TestFetchPlayersReturnsStatusError(t *testing.T) {
	client := clientWith(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusInternalServerError, "upstream exploded", nil), nil
	})

	_, err := client.FetchPlayers(context.Background(), providers.Query{Page: 1})
	st, ok := providers.AsStatusError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if st.StatusCode != http.StatusInternalServerError || st.Body != "upstream exploded" || st.Provider != providerName {
		t.Fatalf("unexpected status error %+v", st)
	}
	if err.Error() != "API request failed with status 500" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFetchPlayersReturnsRateLimitError(t *testing.T) {
	header := make(http.Header)
	header.Set("Retry-After", "7")
	header.Set("X-RateLimit-Remaining", "0")
	client := clientWith(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusTooManyRequests, "slow down", header), nil
	})

	_, err := client.FetchPlayers(context.Background(), providers.Query{Page: 1})
	rl, ok := providers.AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second || rl.Remaining != "0" || rl.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected rate limit error %+v", rl)
	}
}

func TestFetchPlayersTransportAndDecodeErrors(t *testing.T) {
	boom := errors.New("dial failed")
	client := clientWith(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})
	if _, err := client.FetchPlayers(context.Background(), providers.Query{}); !errors.Is(err, boom) {
		t.Fatalf("expected transport error wrapped, got %v", err)
	}

	client = clientWith(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, "not-json", nil), nil
	})
	if _, err := client.FetchPlayers(context.Background(), providers.Query{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFetchPlayersSkipsAuthorizationWithoutKey(t *testing.T) {
	var header string
	client := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		header = req.Header.Get("Authorization")
		return respond(http.StatusOK, `{"data": []}`, nil), nil
	})}})

	if _, err := client.FetchPlayers(context.Background(), providers.Query{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if header != "" {
		t.Fatalf("expected no auth header, got %q", header)
	}
	if client.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", client.baseURL)
	}
}
