package watchlist

// EventType describes what changed the watchlist
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	// EventChanged is a change made outside this store, such as another process
	EventChanged EventType = "changed"
)

// Event is delivered to subscribers after the watchlist changes
type Event struct {
	Type    EventType `json:"type"`
	MovieID int       `json:"movieId,omitempty"`
	Count   int       `json:"count"`
}

// Subscribe registers fn to be called after every change and returns a
// function that removes the subscription. fn runs on the mutating goroutine
// and must not block.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) publish(event Event) {
	s.subMu.RLock()
	subscribers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMu.RUnlock()

	s.logger.Debug().
		Str("type", string(event.Type)).
		Int("movie_id", event.MovieID).
		Int("count", event.Count).
		Int("subscribers", len(subscribers)).
		Msg("Watchlist changed")

	for _, fn := range subscribers {
		fn(event)
	}
}
