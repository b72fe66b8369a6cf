package watchlist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/s0up4200/roulette/tmdb"
)

// FileName is the well-known storage key of the watchlist
const FileName = "cinema-roulette-watchlist.json"

// Store is a durable, most-recent-first list of saved movies. Every call reads
// the file fresh so changes from other processes are visible. Storage failures
// are logged and degrade to an empty list or a no-op.
type Store struct {
	fs     afero.Fs
	dir    string
	path   string
	logger zerolog.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles within this process
	mu sync.Mutex

	snapMu   sync.Mutex
	snapshot []byte

	subMu       sync.RWMutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp new items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a store keeping its file in dir on fs
func NewStore(fs afero.Fs, dir string, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		fs:          fs,
		dir:         dir,
		path:        filepath.Join(dir, FileName),
		logger:      logger,
		now:         time.Now,
		subscribers: make(map[int]func(Event)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the location of the watchlist file
func (s *Store) Path() string {
	return s.path
}

// List returns the saved items, most recently added first
func (s *Store) List() []Item {
	return s.load()
}

// Add saves movie at the front of the list. Adding a saved id is a no-op.
func (s *Store) Add(movie *tmdb.Movie) {
	if movie == nil {
		return
	}

	s.mu.Lock()
	items := s.load()
	for _, item := range items {
		if item.ID == movie.ID {
			s.mu.Unlock()
			return
		}
	}

	items = append([]Item{NewItem(movie, s.now())}, items...)
	ok := s.save(items)
	s.mu.Unlock()

	if ok {
		s.publish(Event{Type: EventAdded, MovieID: movie.ID, Count: len(items)})
	}
}

// Remove deletes the item with movieID. Removing an absent id is a no-op.
func (s *Store) Remove(movieID int) {
	s.mu.Lock()
	items := s.load()
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != movieID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		s.mu.Unlock()
		return
	}

	ok := s.save(kept)
	s.mu.Unlock()

	if ok {
		s.publish(Event{Type: EventRemoved, MovieID: movieID, Count: len(kept)})
	}
}

// Has reports whether movieID is saved
func (s *Store) Has(movieID int) bool {
	for _, item := range s.load() {
		if item.ID == movieID {
			return true
		}
	}
	return false
}

// Count returns the number of saved items
func (s *Store) Count() int {
	return len(s.load())
}

func (s *Store) readRaw() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s *Store) load() []Item {
	data, err := s.readRaw()
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read watchlist")
		return []Item{}
	}

	items, err := Unmarshal(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Watchlist file is corrupt, treating as empty")
		return []Item{}
	}
	return items
}

// save writes items through a temporary file and rename. It reports whether
// the write succeeded.
func (s *Store) save(items []Item) bool {
	if err := s.write(items); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to write watchlist")
		return false
	}
	return true
}

func (s *Store) write(items []Item) error {
	data, err := Marshal(items)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write watchlist temp file: %w", err)
	}

	// Recorded before the rename so a watcher woken by it sees no change.
	prev := s.swapSnapshot(data)
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.restoreSnapshot(prev, data)
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace watchlist: %w", err)
	}

	return nil
}

func (s *Store) swapSnapshot(data []byte) []byte {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	prev := s.snapshot
	s.snapshot = bytes.Clone(data)
	return prev
}

// restoreSnapshot undoes swapSnapshot unless the watcher recorded something newer.
func (s *Store) restoreSnapshot(prev, data []byte) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	if bytes.Equal(s.snapshot, data) {
		s.snapshot = prev
	}
}

// observe records data as the last known file content and reports whether it
// differs from the previous one.
func (s *Store) observe(data []byte) bool {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	if bytes.Equal(s.snapshot, data) {
		return false
	}
	s.snapshot = bytes.Clone(data)
	return true
}
