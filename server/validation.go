package server

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/s0up4200/roulette/tmdb"
)

// rouletteQuery is the query string of a spin request
type rouletteQuery struct {
	Genres    string  `form:"genres"`
	StartYear int     `form:"start_year" binding:"omitempty,min=1870,max=2100"`
	EndYear   int     `form:"end_year" binding:"omitempty,min=1870,max=2100"`
	MinRating float64 `form:"min_rating" binding:"omitempty,min=0,max=10"`
	MinVotes  int     `form:"min_votes" binding:"omitempty,min=0"`
	Expr      string  `form:"expr" binding:"omitempty,max=500"`
	Preset    string  `form:"preset"`
}

var registerOnce sync.Once

func registerValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterStructValidation(yearRangeValidation, rouletteQuery{})
		}
	})
}

// yearRangeValidation rejects a start year after the end year
func yearRangeValidation(sl validator.StructLevel) {
	q := sl.Current().Interface().(rouletteQuery)
	if q.StartYear > 0 && q.EndYear > 0 && q.StartYear > q.EndYear {
		sl.ReportError(q.EndYear, "EndYear", "end_year", "year_range", "")
	}
}

// filters merges the query over base, the filters of an optional preset
func (q rouletteQuery) filters(base tmdb.Filters) (tmdb.Filters, error) {
	f := base

	if strings.TrimSpace(q.Genres) != "" {
		ids, err := parseGenreIDs(q.Genres)
		if err != nil {
			return tmdb.Filters{}, err
		}
		f.GenreIDs = ids
	}
	if q.StartYear > 0 {
		f.StartYear = q.StartYear
	}
	if q.EndYear > 0 {
		f.EndYear = q.EndYear
	}
	if q.MinRating > 0 {
		f.MinRating = q.MinRating
	}
	if q.MinVotes > 0 {
		f.MinVoteCount = q.MinVotes
	}

	return f, f.Validate()
}

func parseGenreIDs(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid genre id %q", tmdb.ErrInvalidFilters, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
