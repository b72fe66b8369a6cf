package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s0up4200/roulette/watchlist"
)

const eventBuffer = 16

// watchlistEvents streams watchlist changes as server-sent events. The first
// event carries the current count.
func (s *Server) watchlistEvents(c *gin.Context) {
	events := make(chan watchlist.Event, eventBuffer)
	unsubscribe := s.deps.Watchlist.Subscribe(func(e watchlist.Event) {
		select {
		case events <- e:
		default:
			// A slow client misses intermediate events; the next one carries the count.
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent("watchlist", watchlist.Event{Type: watchlist.EventChanged, Count: s.deps.Watchlist.Count()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			c.SSEvent("watchlist", e)
			c.Writer.Flush()
		}
	}
}
