package rounddomain

import "errors"

// Domain errors for round lifecycle operations. These are business outcomes
// callers surface to the user as a retryable prompt, not infrastructure faults.
var (
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrRoundSubmitted    = errors.New("round already submitted")
	ErrRoundArchived     = errors.New("round is archived")
	ErrInvalidPrize      = errors.New("invalid hole prize")
	ErrPrizeNotOnHole    = errors.New("prize not configured on this hole")
	ErrMissingIdentity   = errors.New("participant has no id or name")
	ErrInvalidJoinCode   = errors.New("invalid join code")
)
