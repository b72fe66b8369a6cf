package qbittorrent

import (
	"context"
	"fmt"
	"strings"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// API is the part of the qBittorrent Web API the client uses
type API interface {
	AddTorrentFromUrlCtx(ctx context.Context, url string, options map[string]string) error
	GetAppVersionCtx(ctx context.Context) (string, error)
}

// AddOptions controls where a torrent lands
type AddOptions struct {
	Category string
	SavePath string
	Paused   bool
}

// Client wraps the qBittorrent API client
type Client struct {
	client API
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client and logs in
func NewClient(url, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          url,
		Username:      username,
		Password:      password,
		Timeout:       int(options.timeout.Seconds()),
		TLSSkipVerify: options.skipVerify,
	})

	// Test connection by logging in
	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return NewClientWithAPI(client, logger), nil
}

// NewClientWithAPI creates a client over an existing API implementation
func NewClientWithAPI(api API, logger zerolog.Logger) *Client {
	return &Client{
		client: api,
		logger: logger,
	}
}

// Version returns the qBittorrent application version
func (c *Client) Version(ctx context.Context) (string, error) {
	version, err := c.client.GetAppVersionCtx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get qBittorrent version: %w", err)
	}
	return version, nil
}

// AddMagnet sends a magnet link to qBittorrent
func (c *Client) AddMagnet(ctx context.Context, magnet string, opts AddOptions) error {
	magnet = strings.TrimSpace(magnet)
	if !strings.HasPrefix(magnet, "magnet:?") {
		return ErrInvalidMagnet
	}

	options := map[string]string{}
	if opts.Category != "" {
		options["category"] = opts.Category
	}
	if opts.SavePath != "" {
		options["savepath"] = opts.SavePath
	}
	if opts.Paused {
		options["paused"] = "true"
	}

	if err := c.client.AddTorrentFromUrlCtx(ctx, magnet, options); err != nil {
		return fmt.Errorf("failed to add torrent: %w", err)
	}

	c.logger.Info().
		Str("category", opts.Category).
		Str("save_path", opts.SavePath).
		Msg("Sent magnet link to qBittorrent")

	return nil
}
