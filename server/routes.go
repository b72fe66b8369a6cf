package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/genres", s.listGenres)
		api.GET("/roulette", s.spin)

		api.GET("/movies/:id", s.getMovie)
		api.GET("/movies/:id/providers", s.getProviders)
		api.GET("/movies/:id/torrents", s.getTorrents)
	}

	list := api.Group("/watchlist")
	{
		list.GET("", s.listWatchlist)
		list.GET("/count", s.countWatchlist)
		list.GET("/events", s.watchlistEvents)
		list.GET("/:id", s.hasWatchlist)
		list.POST("/:id", s.addWatchlist)
		list.DELETE("/:id", s.removeWatchlist)
	}
}
