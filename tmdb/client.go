package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a catalog API client
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	region       string
	minVoteCount int
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a new catalog client. It does not contact the API.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: tmdb API key is required", ErrInvalidConfig)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       strings.TrimSpace(apiKey),
		language:     DefaultLanguage,
		region:       DefaultRegion,
		minVoteCount: DefaultMinVoteCount,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Region returns the country used for watch provider lookups
func (c *Client) Region() string {
	return c.region
}

// doRequest performs a GET request and decodes the JSON body into v
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("page", params.Get("page")).
		Msg("Making tmdb API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// Ping verifies the API key against the configuration endpoint
func (c *Client) Ping(ctx context.Context) error {
	var payload map[string]any
	if err := c.doRequest(ctx, "/configuration", nil, &payload); err != nil {
		return fmt.Errorf("failed to connect to tmdb: %w", err)
	}
	return nil
}

// ListGenres fetches the movie genre vocabulary. Failures are logged and
// reported as an empty list.
func (c *Client) ListGenres(ctx context.Context) []Genre {
	var response genreResponse
	if err := c.doRequest(ctx, "/genre/movie/list", nil, &response); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to fetch genres")
		return []Genre{}
	}
	if response.Genres == nil {
		return []Genre{}
	}
	return response.Genres
}

// Discover runs a popularity-ordered discovery query for the given 1-indexed page
func (c *Client) Discover(ctx context.Context, filters Filters, page int) (*DiscoverPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	params := c.discoverParams(filters)
	params.Set("page", strconv.Itoa(page))

	var response DiscoverPage
	if err := c.doRequest(ctx, "/discover/movie", params, &response); err != nil {
		return nil, fmt.Errorf("failed to discover movies (page %d): %w", page, err)
	}

	c.logger.Debug().
		Int("page", page).
		Int("count", len(response.Results)).
		Int("total_pages", response.TotalPages).
		Int("total_results", response.TotalResults).
		Msg("Retrieved discovery page")

	return &response, nil
}

// discoverParams maps filters onto discovery query parameters
func (c *Client) discoverParams(filters Filters) url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("include_video", "false")

	if len(filters.GenreIDs) > 0 {
		ids := make([]string, 0, len(filters.GenreIDs))
		for _, id := range filters.GenreIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		// "|" asks the API for movies matching any of the genres
		params.Set("with_genres", strings.Join(ids, "|"))
	}

	if filters.StartYear > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%04d-01-01", filters.StartYear))
	}
	if filters.EndYear > 0 {
		params.Set("primary_release_date.lte", fmt.Sprintf("%04d-12-31", filters.EndYear))
	}

	if filters.MinRating > 0 {
		votes := filters.MinVoteCount
		if votes <= 0 {
			votes = c.minVoteCount
		}
		params.Set("vote_average.gte", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
		params.Set("vote_count.gte", strconv.Itoa(votes))
	}

	return params
}

// MovieDetail fetches the full record for a single movie
func (c *Client) MovieDetail(ctx context.Context, movieID int) (*Movie, error) {
	var movie Movie
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &movie); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", movieID, err)
	}
	if len(movie.GenreIDs) == 0 && len(movie.Genres) > 0 {
		movie.GenreIDs = movie.GenreIDsFromGenres()
	}
	return &movie, nil
}

// WatchProviders returns provider availability in the configured region, or nil
// when the lookup fails or the region has no entry.
func (c *Client) WatchProviders(ctx context.Context, movieID int) *WatchProviderResult {
	var response watchProvidersResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &response); err != nil {
		c.logger.Warn().Err(err).Int("movie_id", movieID).Msg("Failed to fetch watch providers")
		return nil
	}

	result, ok := response.Results[c.region]
	if !ok {
		return nil
	}
	return &result
}
