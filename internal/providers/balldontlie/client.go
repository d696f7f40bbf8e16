package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-roster-service/internal/providers"
)

// Config controls how the balldontlie client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client fetches player pages from the balldontlie API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a balldontlie client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
	}
}

// FetchPlayers retrieves one page of players. Non-2xx responses become
// *providers.StatusError, and 429 becomes *providers.RateLimitError.
func (c *Client) FetchPlayers(ctx context.Context, q providers.Query) (providers.Page, error) {
	q = q.Normalize()
	req, err := c.buildRequest(ctx, q)
	if err != nil {
		return providers.Page{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.Page{}, fmt.Errorf("balldontlie: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providers.Page{}, c.statusError(resp)
	}

	var payload playersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return providers.Page{}, fmt.Errorf("balldontlie: decode players: %w", err)
	}
	return mapPage(payload), nil
}

func (c *Client) buildRequest(ctx context.Context, q providers.Query) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/players", nil)
	if err != nil {
		return nil, err
	}

	params := req.URL.Query()
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	req.URL.RawQuery = params.Encode()

	// balldontlie expects the raw key, not a bearer token.
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    fmt.Sprintf("API request failed with status %d", resp.StatusCode),
		}
	}
	return &providers.StatusError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Body:       msg,
	}
}
