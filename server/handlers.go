package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/s0up4200/roulette/filter"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tmdb"
	"github.com/s0up4200/roulette/torrents"
)

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// movieView is a movie plus the links the UI renders
type movieView struct {
	*tmdb.Movie
	Year        int    `json:"year"`
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
	IMDbURL     string `json:"imdb_url"`
	Saved       bool   `json:"saved"`
}

func (s *Server) view(movie *tmdb.Movie) movieView {
	return movieView{
		Movie:       movie,
		Year:        movie.Year(),
		PosterURL:   movie.PosterURL(""),
		BackdropURL: movie.BackdropURL(""),
		IMDbURL:     movie.IMDbURL(),
		Saved:       s.deps.Watchlist != nil && s.deps.Watchlist.Has(movie.ID),
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message})
}

// selectionError maps selector errors onto HTTP replies
func selectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roulette.ErrNoneFound):
		abort(c, http.StatusNotFound, "none_found", "No movie matched these filters. Try loosening them.")
	case errors.Is(err, roulette.ErrSelectionFailed):
		abort(c, http.StatusBadGateway, "selection_failed", "The movie catalog could not be reached. Try again.")
	default:
		abort(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func movieID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid_id", "movie id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *Server) listGenres(c *gin.Context) {
	c.JSON(http.StatusOK, s.genres.List(c.Request.Context()))
}

func (s *Server) spin(c *gin.Context) {
	var q rouletteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, http.StatusBadRequest, "invalid_filters", err.Error())
		return
	}

	var base tmdb.Filters
	var presetFilter filter.Filter
	if q.Preset != "" {
		preset, ok := s.deps.Presets[q.Preset]
		if !ok {
			abort(c, http.StatusBadRequest, "unknown_preset", "unknown preset "+strconv.Quote(q.Preset))
			return
		}
		base = preset
		// A preset without an expression is not registered.
		presetFilter, _ = s.deps.Filters.GetFilter(q.Preset)
	}

	filters, err := q.filters(base)
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid_filters", err.Error())
		return
	}

	var exprFilter filter.Filter
	if q.Expr != "" {
		exprFilter, err = s.deps.Filters.Compile(q.Expr)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid_expression", err.Error())
			return
		}
	}

	movie, err := s.deps.Selector.PickRandomMatching(c.Request.Context(), filters, filter.AllOf(presetFilter, exprFilter))
	if err != nil {
		s.logger.Debug().Err(err).Msg("Spin produced no movie")
		selectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.view(movie))
}

func (s *Server) getMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	movie, err := s.deps.Selector.GetByID(c.Request.Context(), id)
	if err != nil {
		selectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.view(movie))
}

func (s *Server) getProviders(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	providers := s.deps.Catalog.WatchProviders(c.Request.Context(), id)
	if providers == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (s *Server) getTorrents(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	if s.deps.Torrents == nil {
		c.JSON(http.StatusOK, []torrents.Result{})
		return
	}

	movie, err := s.deps.Selector.GetByID(c.Request.Context(), id)
	if err != nil {
		selectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.deps.Torrents.SearchMovie(c.Request.Context(), movie.Title, movie.Year()))
}

func (s *Server) listWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Watchlist.List())
}

func (s *Server) countWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.deps.Watchlist.Count()})
}

func (s *Server) hasWatchlist(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": s.deps.Watchlist.Has(id)})
}

// addWatchlist resolves the id through the selector so only displayable
// movies are saved
func (s *Server) addWatchlist(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	movie, err := s.deps.Selector.GetByID(c.Request.Context(), id)
	if err != nil {
		selectionError(c, err)
		return
	}

	s.deps.Watchlist.Add(movie)
	c.JSON(http.StatusOK, gin.H{
		"saved": s.deps.Watchlist.Has(id),
		"count": s.deps.Watchlist.Count(),
	})
}

func (s *Server) removeWatchlist(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	s.deps.Watchlist.Remove(id)
	c.JSON(http.StatusOK, gin.H{
		"saved": s.deps.Watchlist.Has(id),
		"count": s.deps.Watchlist.Count(),
	})
}
