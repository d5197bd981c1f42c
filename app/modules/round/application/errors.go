package roundservice

import (
	"errors"
	"strings"
)

var (
	ErrRoundNotFound     = errors.New("round not found")
	ErrScorecardNotFound = errors.New("scorecard not found")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError lists every problem with a create request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
