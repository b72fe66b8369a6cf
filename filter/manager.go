package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/roulette/tmdb"
)

// Manager keeps named filters, such as the expressions of configured presets
type Manager struct {
	compiler Compiler
	filters  map[string]Filter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(),
		filters:  make(map[string]Filter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Compile compiles an ad-hoc expression with the manager's compiler
func (m *Manager) Compile(expression string) (Filter, error) {
	return m.compiler.Compile(expression)
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]Filter, len(filters))

	for name, expression := range filters {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a registered filter by name
func (m *Manager) GetFilter(name string) (Filter, error) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFilter, name)
	}
	return filter, nil
}

// ListFilters returns all registered filter names in sorted order
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// AllOf returns a predicate accepting a movie only when every filter matches.
// Nil filters are ignored; with none left the predicate is nil.
func AllOf(filters ...Filter) func(*tmdb.Movie) bool {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}

	return func(movie *tmdb.Movie) bool {
		for _, f := range active {
			if !f.Matches(movie) {
				return false
			}
		}
		return true
	}
}
