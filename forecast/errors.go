/*
errors.go - Centralized error types for the forecast engine

PURPOSE:
  All engine errors in one place. Every error here is fatal for the run
  that raises it: the engine never returns a partial report.

ERROR CATEGORIES:
  1. Precondition errors - expected operational states (no current term,
     sections not yet published). The HTTP layer maps these to 409-style
     responses, not 500s.
  2. Usage errors - a caller handed the sequencer a term id the store has
     never seen.

USAGE:
  if forecast.IsPrecondition(err) {
      // "not yet" condition, surface to the operator
  }

SEE ALSO:
  - run.go: raises the precondition errors
  - terms.go: raises UnknownTermError
*/
package forecast

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoCurrentTerm is returned when no term in the store is flagged
	// current. Nothing can be computed without an anchor term.
	ErrNoCurrentTerm = errors.New("no current term flagged in store")

	// ErrSectionsNotPublished is returned when the current term has zero
	// sections in an allowed status and fallback estimation is disabled.
	// Aborting beats reporting misleading all-PT-need numbers.
	ErrSectionsNotPublished = errors.New("no sections published for current term")

	// ErrNoPrecedingTerm is returned when the current term is the very
	// first term in history, so no preference term exists to seed capacity.
	ErrNoPrecedingTerm = errors.New("no preceding term to use as preference term")

	// ErrUnknownTerm is returned when a term id passed to the sequencer
	// does not exist in the store.
	ErrUnknownTerm = errors.New("unknown term")

	// ErrDepartmentRequired is returned when Params carries an empty
	// department scope.
	ErrDepartmentRequired = errors.New("department scope is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownTermError reports which term id failed a sequencer lookup.
type UnknownTermError struct {
	TermID TermID
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("unknown term: %q", e.TermID)
}

func (e *UnknownTermError) Unwrap() error {
	return ErrUnknownTerm
}

// SectionsNotPublishedError reports which term tripped the publication
// guard and which statuses were considered.
type SectionsNotPublishedError struct {
	TermID   TermID
	Statuses []string
}

func (e *SectionsNotPublishedError) Error() string {
	return fmt.Sprintf("no sections with status %v published for term %q", e.Statuses, e.TermID)
}

func (e *SectionsNotPublishedError) Unwrap() error {
	return ErrSectionsNotPublished
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPrecondition returns true for expected "not yet" operational states,
// as opposed to store failures or engine bugs.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoCurrentTerm) ||
		errors.Is(err, ErrSectionsNotPublished) ||
		errors.Is(err, ErrNoPrecedingTerm) ||
		errors.Is(err, ErrDepartmentRequired)
}
