package domain

import "errors"

// Calendar configuration errors. Any of these aborts calendar construction.
var (
	ErrNoShiftsConfigured = errors.New("no shifts configured")
	ErrInvalidShiftFormat = errors.New("invalid shift time format")
	ErrZeroLengthShift    = errors.New("shift has zero-length working window")
	ErrInvalidPause       = errors.New("invalid shift pause")
)

// Per-request data errors. The offending request is skipped, never the run.
var (
	ErrInvalidRate     = errors.New("production time per unit must be positive")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrMissingStart    = errors.New("requested start is missing")
)

// ErrForReason maps a skip reason to its sentinel error.
func ErrForReason(r SkipReason) error {
	switch r {
	case SkipMissingStart:
		return ErrMissingStart
	case SkipInvalidRate:
		return ErrInvalidRate
	case SkipInvalidQuantity:
		return ErrInvalidQuantity
	case SkipNoShifts:
		return ErrNoShiftsConfigured
	default:
		return nil
	}
}
