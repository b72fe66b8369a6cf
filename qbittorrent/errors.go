package qbittorrent

import "errors"

// Common errors returned by the qBittorrent client.
var (
	// ErrInvalidMagnet is returned when a link is not a magnet URI.
	ErrInvalidMagnet = errors.New("invalid magnet link")

	// ErrConnectionFailed is returned when connection to qBittorrent fails.
	ErrConnectionFailed = errors.New("connection to qBittorrent failed")
)
