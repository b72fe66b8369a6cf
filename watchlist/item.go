package watchlist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/s0up4200/roulette/tmdb"
)

// Item is the saved projection of a movie
type Item struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	// SavedAt is milliseconds since the Unix epoch
	SavedAt int64 `json:"savedAt"`
}

// NewItem projects a movie into a watchlist item stamped with savedAt
func NewItem(movie *tmdb.Movie, savedAt time.Time) Item {
	return Item{
		ID:          movie.ID,
		Title:       movie.Title,
		PosterPath:  movie.PosterPath,
		ReleaseDate: movie.ReleaseDate,
		VoteAverage: movie.VoteAverage,
		SavedAt:     savedAt.UnixMilli(),
	}
}

// SavedTime returns SavedAt as a time
func (i Item) SavedTime() time.Time {
	return time.UnixMilli(i.SavedAt)
}

// Marshal serializes items as an ordered JSON array
func Marshal(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode watchlist: %w", err)
	}
	return data, nil
}

// Unmarshal parses a serialized list, preserving order. Empty input is an
// empty list; repeated ids keep their first occurrence.
func Unmarshal(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return []Item{}, nil
	}

	var raw []Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for _, item := range raw {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}
