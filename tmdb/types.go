package tmdb

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p"
	imdbTitleURL = "https://www.imdb.com/title/"
)

// Genre represents a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie represents a catalog movie. Summary records returned by discovery leave
// Runtime, Tagline, IMDbID and Status empty; detail lookups fill them in.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	Genres           []Genre `json:"genres,omitempty"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	IMDbID           string  `json:"imdb_id,omitempty"`
	Status           string  `json:"status,omitempty"`
}

// ValidForSelection reports whether the movie has a poster and a non-blank overview
func (m *Movie) ValidForSelection() bool {
	return strings.TrimSpace(m.PosterPath) != "" && strings.TrimSpace(m.Overview) != ""
}

// ValidForDisplay reports whether the movie is valid for selection and carries an IMDb id
func (m *Movie) ValidForDisplay() bool {
	return m.ValidForSelection() && strings.TrimSpace(m.IMDbID) != ""
}

// Year returns the release year, or 0 when the release date is unknown
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// MergeDetail returns a copy of the summary record with the fields only a detail
// lookup provides taken from detail.
func (m *Movie) MergeDetail(detail *Movie) *Movie {
	merged := *m
	if detail == nil {
		return &merged
	}

	merged.Genres = detail.Genres
	merged.Runtime = detail.Runtime
	merged.Tagline = detail.Tagline
	merged.IMDbID = detail.IMDbID
	merged.Status = detail.Status

	// The detail record is authoritative for the fields validity depends on.
	merged.PosterPath = detail.PosterPath
	merged.Overview = detail.Overview

	if len(merged.GenreIDs) == 0 && len(detail.Genres) > 0 {
		merged.GenreIDs = detail.GenreIDsFromGenres()
	}

	return &merged
}

// GenreIDsFromGenres returns the ids of the full genre objects
func (m *Movie) GenreIDsFromGenres() []int {
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// GenreNames returns the names of the full genre objects
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// PosterURL returns the poster image URL for the given size ("w300", "w500", "original")
func (m *Movie) PosterURL(size string) string {
	return imageURL(m.PosterPath, size, "w500")
}

// BackdropURL returns the backdrop image URL for the given size ("w780", "w1280", "original")
func (m *Movie) BackdropURL(size string) string {
	return imageURL(m.BackdropPath, size, "w1280")
}

// IMDbURL returns the IMDb title page for the movie, or "" without an IMDb id
func (m *Movie) IMDbURL() string {
	if strings.TrimSpace(m.IMDbID) == "" {
		return ""
	}
	return imdbTitleURL + m.IMDbID
}

func imageURL(path, size, defaultSize string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if size == "" {
		size = defaultSize
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}

// Filters narrows a discovery query. Zero values mean "unconstrained".
type Filters struct {
	GenreIDs     []int   `json:"genreIds,omitempty"`
	StartYear    int     `json:"startYear,omitempty"`
	EndYear      int     `json:"endYear,omitempty"`
	MinRating    float64 `json:"minRating,omitempty"`
	MinVoteCount int     `json:"minVoteCount,omitempty"`
}

// Validate checks that the filters describe a satisfiable query
func (f Filters) Validate() error {
	if f.StartYear < 0 || f.EndYear < 0 {
		return fmt.Errorf("%w: years must be positive", ErrInvalidFilters)
	}
	if f.StartYear > 0 && f.EndYear > 0 && f.StartYear > f.EndYear {
		return fmt.Errorf("%w: start year %d is after end year %d", ErrInvalidFilters, f.StartYear, f.EndYear)
	}
	if f.MinRating < 0 || f.MinRating > 10 {
		return fmt.Errorf("%w: minimum rating must be between 0 and 10", ErrInvalidFilters)
	}
	if f.MinVoteCount < 0 {
		return fmt.Errorf("%w: minimum vote count must not be negative", ErrInvalidFilters)
	}
	for _, id := range f.GenreIDs {
		if id <= 0 {
			return fmt.Errorf("%w: invalid genre id %d", ErrInvalidFilters, id)
		}
	}
	return nil
}

// DiscoverPage is one page of a discovery query
type DiscoverPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// WatchProvider is a single streaming, rental or purchase service
type WatchProvider struct {
	LogoPath        string `json:"logo_path"`
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	DisplayPriority int    `json:"display_priority"`
}

// LogoURL returns the provider logo URL for the given size ("w45", "w92", "w154", "original")
func (p *WatchProvider) LogoURL(size string) string {
	return imageURL(p.LogoPath, size, "w92")
}

// WatchProviderResult holds provider availability for one country
type WatchProviderResult struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

type genreResponse struct {
	Genres []Genre `json:"genres"`
}

type watchProvidersResponse struct {
	ID      int                            `json:"id"`
	Results map[string]WatchProviderResult `json:"results"`
}
