package rounddomain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
)

// PrizeType is a skill prize that can be configured on a hole.
type PrizeType string

const (
	PrizeClosestToPin PrizeType = "ctp"
	PrizeLongestDrive PrizeType = "ld"
)

func (p PrizeType) Valid() bool {
	return p == PrizeClosestToPin || p == PrizeLongestDrive
}

// HolePrize configures one prize on one hole.
type HolePrize struct {
	Hole int       `json:"hole"`
	Type PrizeType `json:"type"`
}

// Round is the descriptor shared by every participant of a group round.
// Only the invited player list changes after creation.
type Round struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	JoinCode       string      `json:"joinCode"`
	Course         string      `json:"course"`
	Tees           string      `json:"tees,omitempty"`
	Holes          int         `json:"holes"`
	Date           string      `json:"date,omitempty"`
	ScoringFormat  string      `json:"scoringFormat"`
	HolePrizes     []HolePrize `json:"holePrizes"`
	InvitedPlayers []string    `json:"invitedPlayers"`
	CreatedBy      string      `json:"createdBy,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// ScoringFormatStableford is the only format the leaderboard ranks by.
const ScoringFormatStableford = "stableford"

// PrizeConfigured reports whether the round awards prize t on hole.
func (r *Round) PrizeConfigured(hole int, t PrizeType) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.HolePrizes, HolePrize{Hole: hole, Type: t})
}

// AddInvitedPlayer appends name to the invite list unless it is already
// there. It reports whether the list changed.
func (r *Round) AddInvitedPlayer(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(r.InvitedPlayers, name) {
		return false
	}
	r.InvitedPlayers = append(r.InvitedPlayers, name)
	return true
}

// RenameInvitedPlayer swaps oldName for newName in the invite list.
func (r *Round) RenameInvitedPlayer(oldName, newName string) bool {
	changed := false
	for i, n := range r.InvitedPlayers {
		if n == oldName {
			r.InvitedPlayers[i] = newName
			changed = true
		}
	}
	if !changed {
		return false
	}
	seen := make(map[string]bool, len(r.InvitedPlayers))
	kept := r.InvitedPlayers[:0]
	for _, n := range r.InvitedPlayers {
		if !seen[n] {
			seen[n] = true
			kept = append(kept, n)
		}
	}
	r.InvitedPlayers = kept
	return true
}

// ValidateHolePrizes checks prize holes and types and rejects duplicates.
func ValidateHolePrizes(prizes []HolePrize) error {
	seen := make(map[HolePrize]bool, len(prizes))
	for _, p := range prizes {
		if !scoredomain.ValidHole(p.Hole) {
			return fmt.Errorf("%w: prize on hole %d", ErrInvalidPrize, p.Hole)
		}
		if !p.Type.Valid() {
			return fmt.Errorf("%w: unknown prize type %q", ErrInvalidPrize, p.Type)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate %s on hole %d", ErrInvalidPrize, p.Type, p.Hole)
		}
		seen[p] = true
	}
	return nil
}
