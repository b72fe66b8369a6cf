package torrents

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when a search has nothing to look for.
	ErrEmptyQuery = errors.New("empty search query")
)

// APIError represents a non-success response from the torrent index
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("torrent index error: status %d", e.StatusCode)
}
