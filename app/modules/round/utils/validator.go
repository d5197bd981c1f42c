package roundutil

import (
	"fmt"
	"strings"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
)

// CreateRoundInput is the caller-supplied part of a new round.
type CreateRoundInput struct {
	Name       string                  `json:"name"`
	Course     string                  `json:"course"`
	Tees       string                  `json:"tees"`
	Holes      int                     `json:"holes"`
	Date       string                  `json:"date"`
	HolePrizes []rounddomain.HolePrize `json:"holePrizes"`
	CreatedBy  string                  `json:"createdBy"`
}

// RoundValidator defines the interface for round validation.
type RoundValidator interface {
	ValidateRoundInput(input CreateRoundInput) []string
}

// RoundValidatorImpl is the concrete implementation of the RoundValidator interface.
type RoundValidatorImpl struct{}

// NewRoundValidator creates a new instance of RoundValidatorImpl.
func NewRoundValidator() RoundValidator {
	return &RoundValidatorImpl{}
}

// ValidateRoundInput validates the input for creating a new round. Holes of
// zero means the default of 18.
func (v *RoundValidatorImpl) ValidateRoundInput(input CreateRoundInput) []string {
	var errs []string

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}

	if strings.TrimSpace(input.Course) == "" {
		errs = append(errs, "course cannot be empty")
	}

	if input.Holes != 0 && input.Holes != 9 && input.Holes != 18 {
		errs = append(errs, fmt.Sprintf("holes must be 9 or 18, got %d", input.Holes))
	}

	if err := rounddomain.ValidateHolePrizes(input.HolePrizes); err != nil {
		errs = append(errs, err.Error())
	}

	return errs
}
