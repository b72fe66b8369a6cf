package tautulli

import (
	"encoding/json"
	"time"
)

// DefaultMinWatchPercent is the progress at which a play counts as watched
const DefaultMinWatchPercent = 85.0

type apiResponse[T any] struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    T      `json:"data"`
	} `json:"response"`
}

// historyData contains the history records
type historyData struct {
	Data []HistoryRecord `json:"data"`
}

// HistoryRecord represents a single history entry
type HistoryRecord struct {
	User            string          `json:"user"`
	RatingKey       json.RawMessage `json:"rating_key"` // Can be string or number
	Title           string          `json:"title"`
	FullTitle       string          `json:"full_title"`
	Year            int             `json:"year"`
	MediaType       string          `json:"media_type"`
	GUID            string          `json:"guid"`
	Date            int64           `json:"date"`
	PercentComplete int             `json:"percent_complete"`
	WatchedStatus   float64         `json:"watched_status"`
}

// WatchedTime returns the time when the item was watched
func (h *HistoryRecord) WatchedTime() time.Time {
	if h.Date > 0 {
		return time.Unix(h.Date, 0)
	}
	return time.Time{}
}

// IsWatched checks if the item is considered watched based on percentage
func (h *HistoryRecord) IsWatched(minPercentage float64) bool {
	return float64(h.PercentComplete) >= minPercentage || h.WatchedStatus >= 0.9
}

// WatchStatus contains aggregated watch information for a movie
type WatchStatus struct {
	Watched     bool
	PlayCount   int
	LastWatched time.Time
	MaxProgress float64
}
