package booking

import (
	"errors"
	"fmt"
	"time"

	"bookable/internal/schedule"
)

var (
	// ErrInvalidInterval covers malformed input: zero or negative duration,
	// end before start, or a start already in the past.
	ErrInvalidInterval = errors.New("invalid booking interval")
	// ErrConflict means the interval is unavailable; the caller should offer
	// another time. Storage-level exclusion-constraint losses surface as this
	// error too, never as a generic failure.
	ErrConflict = errors.New("interval not available")
	// ErrInvalidTransition is an illegal lifecycle change.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation error")
)

// RangeConflictError carries the first conflicting day of a rejected rental
// range. It unwraps to ErrConflict so callers can branch with errors.Is.
type RangeConflictError struct {
	Day    time.Time
	Reason schedule.Reason
}

func (e *RangeConflictError) Error() string {
	return fmt.Sprintf("range conflict on %s: %s", e.Day.Format("2006-01-02"), e.Reason)
}

func (e *RangeConflictError) Unwrap() error { return ErrConflict }
