package torrents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a torrent index client
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new torrent index client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Search queries the index and returns the raw entries of the first page
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("query", query).Msg("Searching torrent index")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Anything other than a JSON array means no results.
	var entries []entry
	if err := json.Unmarshal(body, &entries); err != nil {
		c.logger.Debug().Err(err).Msg("Torrent index returned a non-list body")
		return []Result{}, nil
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, Result{
			Name:       e.Title,
			Seeders:    parseCount(e.Seeders),
			Leechers:   parseCount(e.Leechers),
			Size:       e.Size,
			MagnetLink: e.TorrentLink,
		})
	}

	return results, nil
}

// SearchMovie looks up torrents for a movie. Results without seeders are
// dropped. Results naming a different release year, or with unreadable names,
// rank after the rest; each group is ordered by seeders.
// Failures are logged and reported as an empty list.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) []Result {
	query := title
	if year > 0 {
		query = title + " " + strconv.Itoa(year)
	}

	results, err := c.Search(ctx, query)
	if err != nil {
		c.logger.Warn().Err(err).Str("title", title).Msg("Failed to search torrents")
		return []Result{}
	}

	titleTokens := tokenizeTitle(title)
	kept := make([]Result, 0, len(results))
	var demoted []Result
	for _, r := range results {
		if r.Seeders < 1 {
			continue
		}
		match, ok := scoreTitle(titleTokens, r.Name, year)
		r.TitleMatch = match
		if ok {
			kept = append(kept, r)
		} else {
			demoted = append(demoted, r)
		}
	}

	bySeeders := func(rs []Result) {
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Seeders > rs[j].Seeders
		})
	}
	bySeeders(kept)
	bySeeders(demoted)
	kept = append(kept, demoted...)

	if c.limit > 0 && len(kept) > c.limit {
		kept = kept[:c.limit]
	}

	c.logger.Debug().
		Str("title", title).
		Int("found", len(results)).
		Int("kept", len(kept)).
		Msg("Torrent search complete")

	return kept
}
