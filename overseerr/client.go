package overseerr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client represents an Overseerr API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Overseerr client and checks the connection
func NewClient(ctx context.Context, baseURL, apiKey string, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	if err := client.TestConnection(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}

	return client, nil
}

// doRequest performs an authenticated request and decodes the JSON reply into v
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Msg("Making Overseerr API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(data),
		}
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// TestConnection checks the URL and API key
func (c *Client) TestConnection(ctx context.Context) error {
	var user User
	return c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &user)
}

// MediaStatus returns the library state of a movie by catalog id.
// Movies Overseerr has never tracked report MediaStatusNone.
func (c *Client) MediaStatus(ctx context.Context, tmdbID int) (MediaStatus, error) {
	var movie movieResponse
	if err := c.doRequest(ctx, http.MethodGet, "/movie/"+strconv.Itoa(tmdbID), nil, &movie); err != nil {
		return MediaStatusNone, fmt.Errorf("failed to get movie %d: %w", tmdbID, err)
	}

	if movie.MediaInfo == nil {
		return MediaStatusNone, nil
	}
	return movie.MediaInfo.Status, nil
}

// RequestMovie requests a movie unless it is already requested or available
func (c *Client) RequestMovie(ctx context.Context, tmdbID int) (*RequestResult, error) {
	status, err := c.MediaStatus(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	if status.Requested() {
		c.logger.Debug().
			Int("tmdb_id", tmdbID).
			Str("status", status.String()).
			Msg("Movie already requested")
		return &RequestResult{MediaStatus: status, Existed: true}, nil
	}

	var request MediaRequest
	err = c.doRequest(ctx, http.MethodPost, "/request", requestBody{
		MediaType: MediaTypeMovie,
		MediaID:   tmdbID,
	}, &request)
	if err != nil {
		return nil, fmt.Errorf("failed to request movie %d: %w", tmdbID, err)
	}

	c.logger.Info().
		Int("tmdb_id", tmdbID).
		Int("request_id", request.ID).
		Str("status", request.Status.String()).
		Msg("Requested movie")

	return &RequestResult{
		RequestID:   request.ID,
		Status:      request.Status,
		MediaStatus: status,
	}, nil
}
