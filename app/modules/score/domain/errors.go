package scoredomain

import "errors"

var (
	// ErrInvalidHole is returned when a hole number falls outside 1-18.
	ErrInvalidHole = errors.New("invalid hole number")
)
