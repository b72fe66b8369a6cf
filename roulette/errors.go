package roulette

import (
	"errors"
	"fmt"
)

var (
	// ErrNoneFound means the filters and validity rules left nothing to pick.
	// Callers should suggest loosening the filters.
	ErrNoneFound = errors.New("no movie found for the given filters")

	// ErrSelectionFailed means a catalog request failed or timed out.
	// Callers should suggest trying again.
	ErrSelectionFailed = errors.New("movie selection failed")
)

// SelectionError carries the step and cause of a failed selection
type SelectionError struct {
	Step string
	Err  error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSelectionFailed, e.Step, e.Err)
}

// Is makes errors.Is(err, ErrSelectionFailed) hold
func (e *SelectionError) Is(target error) bool {
	return target == ErrSelectionFailed
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

func selectionFailed(step string, err error) error {
	return &SelectionError{Step: step, Err: err}
}
