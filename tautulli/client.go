package tautulli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/roulette/tmdb"
)

// Client wraps the Tautulli API
type Client struct {
	baseURL         string
	apiKey          string
	user            string
	minWatchPercent float64
	httpClient      *http.Client
	logger          zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithUser only counts plays by the given Plex user
func WithUser(user string) Option {
	return func(c *Client) {
		c.user = user
	}
}

// WithMinWatchPercent sets the progress at which a play counts as watched
func WithMinWatchPercent(percent float64) Option {
	return func(c *Client) {
		if percent > 0 {
			c.minWatchPercent = percent
		}
	}
}

// NewClient creates a new Tautulli client and checks the connection
func NewClient(ctx context.Context, baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		minWatchPercent: DefaultMinWatchPercent,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.TestConnection(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Tautulli: %w", err)
	}

	return client, nil
}

// call runs an API command and decodes the response envelope into out
func call[T any](ctx context.Context, c *Client, cmd string, params url.Values, out *apiResponse[T]) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	params.Set("cmd", cmd)

	requestURL := fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("cmd", cmd).Msg("Making Tautulli API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if out.Response.Result != "success" {
		if out.Response.Message != "" {
			return fmt.Errorf("%w: %s", ErrAPIFailure, out.Response.Message)
		}
		return ErrAPIFailure
	}

	return nil
}

// TestConnection tests the connection to Tautulli
func (c *Client) TestConnection(ctx context.Context) error {
	var resp apiResponse[json.RawMessage]
	return call(ctx, c, "get_server_info", nil, &resp)
}

// getHistory retrieves movie plays matching a guid or a title search
func (c *Client) getHistory(ctx context.Context, guid, search string) ([]HistoryRecord, error) {
	params := url.Values{
		"media_type": {"movie"},
		"length":     {"1000"},
	}
	if guid != "" {
		params.Set("guid", guid)
	}
	if search != "" {
		params.Set("search", search)
	}
	if c.user != "" {
		params.Set("user", c.user)
	}

	var resp apiResponse[historyData]
	if err := call(ctx, c, "get_history", params, &resp); err != nil {
		return nil, err
	}
	return resp.Response.Data.Data, nil
}

// WatchStatus looks a movie up by IMDb id first and falls back to its title
// and release year
func (c *Client) WatchStatus(ctx context.Context, movie *tmdb.Movie) (*WatchStatus, error) {
	status := &WatchStatus{}

	if movie.IMDbID != "" {
		records, err := c.getHistory(ctx, "com.plexapp.agents.imdb://"+movie.IMDbID, "")
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			c.processHistoryRecords(records, status)
			return status, nil
		}
	}

	records, err := c.getHistory(ctx, "", movie.Title)
	if err != nil {
		return nil, err
	}

	year := movie.Year()
	var matched []HistoryRecord
	for _, record := range records {
		if !strings.EqualFold(record.Title, movie.Title) && !strings.EqualFold(record.FullTitle, movie.Title) {
			continue
		}
		// Remakes share titles.
		if year > 0 && record.Year > 0 && record.Year != year {
			continue
		}
		matched = append(matched, record)
	}

	c.processHistoryRecords(matched, status)
	return status, nil
}

// processHistoryRecords folds plays into status
func (c *Client) processHistoryRecords(records []HistoryRecord, status *WatchStatus) {
	for _, record := range records {
		status.PlayCount++

		if record.IsWatched(c.minWatchPercent) {
			status.Watched = true
		}

		if progress := float64(record.PercentComplete); progress > status.MaxProgress {
			status.MaxProgress = progress
		}

		if watchTime := record.WatchedTime(); watchTime.After(status.LastWatched) {
			status.LastWatched = watchTime
		}
	}
}

// Unwatched returns a candidate filter that rejects movies already watched.
// A failed lookup keeps the candidate.
func (c *Client) Unwatched(ctx context.Context) func(*tmdb.Movie) bool {
	return func(movie *tmdb.Movie) bool {
		status, err := c.WatchStatus(ctx, movie)
		if err != nil {
			c.logger.Warn().Err(err).Int("movie_id", movie.ID).Msg("Failed to get watch status")
			return true
		}

		if status.Watched {
			c.logger.Debug().
				Str("title", movie.Title).
				Time("last_watched", status.LastWatched).
				Msg("Skipping watched movie")
		}
		return !status.Watched
	}
}
