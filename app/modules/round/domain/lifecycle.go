package rounddomain

import "fmt"

// Collection is a storage location for participant snapshots.
type Collection string

const (
	// CollectionScorecards holds the full record of a round still in play.
	CollectionScorecards Collection = "scorecards"
	// CollectionActive is the per-round index the leaderboard reads for
	// rounds still in play, keyed by ActiveKey.
	CollectionActive Collection = "active_rounds"
	// CollectionCompleted holds submitted rounds keyed by scorecard id.
	CollectionCompleted Collection = "completed_rounds"
	// CollectionArchived holds soft-deleted rounds keyed by scorecard id.
	CollectionArchived Collection = "archived_rounds"
)

// AllCollections lists every snapshot location.
var AllCollections = []Collection{CollectionScorecards, CollectionActive, CollectionCompleted, CollectionArchived}

// ActiveKey is the active index key for a participant.
func ActiveKey(roundID, scorecardID string) string {
	return roundID + "_" + scorecardID
}

// State is a participant's lifecycle state.
type State string

const (
	StateInvited   State = "invited"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateArchived  State = "archived"
	StateDeleted   State = "deleted"
)

// Action moves a participant between lifecycle states.
type Action string

const (
	ActionJoin    Action = "join"
	ActionSubmit  Action = "submit"
	ActionArchive Action = "archive"
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

// StateOf maps the collection a record was found in to its state. The active
// index is not authoritative and maps to active as well.
func StateOf(c Collection) State {
	switch c {
	case CollectionScorecards, CollectionActive:
		return StateActive
	case CollectionCompleted:
		return StateCompleted
	case CollectionArchived:
		return StateArchived
	default:
		return StateInvited
	}
}

// Home is the authoritative collection for a state.
func Home(s State) (Collection, bool) {
	switch s {
	case StateActive:
		return CollectionScorecards, true
	case StateCompleted:
		return CollectionCompleted, true
	case StateArchived:
		return CollectionArchived, true
	default:
		return "", false
	}
}

// RestoreTarget returns where an archived snapshot goes back to: completed
// when it carries a total score, active otherwise.
func RestoreTarget(s *Snapshot) State {
	if s.HasTotalScore() {
		return StateCompleted
	}
	return StateActive
}

// Transition applies action to a participant in state from. snap is only
// consulted for restore.
func Transition(from State, action Action, snap *Snapshot) (State, error) {
	switch {
	case action == ActionJoin && from == StateInvited:
		return StateActive, nil
	case action == ActionSubmit && from == StateActive:
		return StateCompleted, nil
	case action == ActionArchive && (from == StateActive || from == StateCompleted):
		return StateArchived, nil
	case action == ActionRestore && from == StateArchived:
		if snap == nil {
			return from, fmt.Errorf("%w: restore needs the archived record", ErrInvalidTransition)
		}
		return RestoreTarget(snap), nil
	case action == ActionDelete && from == StateArchived:
		return StateDeleted, nil
	}
	return from, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}

// CanEdit reports whether score edits are allowed in state. Completed rounds
// only accept edits under an admin override, which writes back in place.
func CanEdit(state State, adminOverride bool) error {
	switch state {
	case StateActive:
		return nil
	case StateCompleted:
		if adminOverride {
			return nil
		}
		return ErrRoundSubmitted
	case StateArchived:
		return ErrRoundArchived
	default:
		return fmt.Errorf("%w: cannot edit from %s", ErrInvalidTransition, state)
	}
}
