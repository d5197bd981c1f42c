package rounddomain

import (
	"errors"
	"strings"
	"testing"
)

func TestTransition(t *testing.T) {
	total := 74
	completed := &Snapshot{TotalScore: &total}
	unfinished := &Snapshot{}

	tests := []struct {
		name    string
		from    State
		action  Action
		snap    *Snapshot
		want    State
		wantErr bool
	}{
		{name: "join", from: StateInvited, action: ActionJoin, want: StateActive},
		{name: "submit", from: StateActive, action: ActionSubmit, want: StateCompleted},
		{name: "archive active", from: StateActive, action: ActionArchive, want: StateArchived},
		{name: "archive completed", from: StateCompleted, action: ActionArchive, want: StateArchived},
		{name: "restore with total", from: StateArchived, action: ActionRestore, snap: completed, want: StateCompleted},
		{name: "restore without total", from: StateArchived, action: ActionRestore, snap: unfinished, want: StateActive},
		{name: "delete archived", from: StateArchived, action: ActionDelete, want: StateDeleted},
		{name: "cannot resubmit", from: StateCompleted, action: ActionSubmit, wantErr: true},
		{name: "cannot delete active", from: StateActive, action: ActionDelete, wantErr: true},
		{name: "cannot delete completed", from: StateCompleted, action: ActionDelete, wantErr: true},
		{name: "cannot restore active", from: StateActive, action: ActionRestore, snap: unfinished, wantErr: true},
		{name: "restore needs record", from: StateArchived, action: ActionRestore, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action, tt.snap)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				if got != tt.from {
					t.Fatalf("state changed on failure: %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	if err := CanEdit(StateActive, false); err != nil {
		t.Fatal(err)
	}
	if err := CanEdit(StateCompleted, false); !errors.Is(err, ErrRoundSubmitted) {
		t.Fatalf("got %v", err)
	}
	if err := CanEdit(StateCompleted, true); err != nil {
		t.Fatal(err)
	}
	if err := CanEdit(StateArchived, true); !errors.Is(err, ErrRoundArchived) {
		t.Fatalf("got %v", err)
	}
}

func TestStateOfAndHome(t *testing.T) {
	for _, c := range AllCollections {
		st := StateOf(c)
		home, ok := Home(st)
		if !ok {
			t.Fatalf("no home for %s", st)
		}
		if StateOf(home) != st {
			t.Fatalf("home %s of %s maps back to %s", home, st, StateOf(home))
		}
	}
	if ActiveKey("r1", "s1") != "r1_s1" {
		t.Fatal("unexpected active key")
	}
}

func TestJoinCode(t *testing.T) {
	code, err := NewJoinCode()
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != JoinCodeLength {
		t.Fatalf("length %d", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(JoinCodeAlphabet, r) {
			t.Fatalf("unexpected rune %q", r)
		}
	}

	got, err := NormalizeJoinCode("  abcde12345 ")
	if err != nil || got != "ABCDE12345" {
		t.Fatalf("got %q %v", got, err)
	}
	if _, err := NormalizeJoinCode("ab"); !errors.Is(err, ErrInvalidJoinCode) {
		t.Fatalf("expected ErrInvalidJoinCode, got %v", err)
	}
}

func TestRound_Invites(t *testing.T) {
	r := &Round{}
	if !r.AddInvitedPlayer("Alice") || r.AddInvitedPlayer("Alice") || r.AddInvitedPlayer(" ") {
		t.Fatal("unexpected add result")
	}
	r.AddInvitedPlayer("Bob")
	if !r.RenameInvitedPlayer("Bob", "Alice") {
		t.Fatal("expected rename")
	}
	if len(r.InvitedPlayers) != 1 || r.InvitedPlayers[0] != "Alice" {
		t.Fatalf("got %v", r.InvitedPlayers)
	}
}

func TestValidateHolePrizes(t *testing.T) {
	ok := []HolePrize{{Hole: 3, Type: PrizeClosestToPin}, {Hole: 3, Type: PrizeLongestDrive}}
	if err := ValidateHolePrizes(ok); err != nil {
		t.Fatal(err)
	}
	bad := [][]HolePrize{
		{{Hole: 19, Type: PrizeClosestToPin}},
		{{Hole: 2, Type: "fastest"}},
		{{Hole: 2, Type: PrizeLongestDrive}, {Hole: 2, Type: PrizeLongestDrive}},
	}
	for _, b := range bad {
		if err := ValidateHolePrizes(b); !errors.Is(err, ErrInvalidPrize) {
			t.Fatalf("expected ErrInvalidPrize for %v, got %v", b, err)
		}
	}
}
