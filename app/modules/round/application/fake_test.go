package roundservice

import (
	"context"
	"encoding/json"
	"slices"
	"sort"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepo keeps rounds and documents in memory. Any XxxFunc that is set
// replaces the in-memory behavior for that method.
type FakeRoundRepo struct {
	trace []string

	rounds map[string]*rounddomain.Round
	docs   map[rounddomain.Collection]map[string][]byte

	CreateRoundFunc          func(ctx context.Context, db bun.IDB, round *rounddomain.Round) error
	GetRoundFunc             func(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error)
	GetRoundByJoinCodeFunc   func(ctx context.Context, db bun.IDB, code string) (*rounddomain.Round, error)
	UpdateInvitedPlayersFunc func(ctx context.Context, db bun.IDB, roundID string, players []string) error
	DeleteRoundFunc          func(ctx context.Context, db bun.IDB, roundID string) error
	PutDocumentFunc          func(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string, snap *rounddomain.Snapshot) error
	DeleteDocumentFunc       func(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) error
	CountRoundReferencesFunc func(ctx context.Context, db bun.IDB, roundID string) (int, error)
}

func NewFakeRoundRepo() *FakeRoundRepo {
	docs := make(map[rounddomain.Collection]map[string][]byte, len(rounddomain.AllCollections))
	for _, c := range rounddomain.AllCollections {
		docs[c] = map[string][]byte{}
	}
	return &FakeRoundRepo{
		trace:  []string{},
		rounds: map[string]*rounddomain.Round{},
		docs:   docs,
	}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepo) CreateRound(ctx context.Context, db bun.IDB, round *rounddomain.Round) error {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	cp := *round
	f.rounds[round.ID] = &cp
	return nil
}

func (f *FakeRoundRepo) GetRound(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	r, ok := f.rounds[roundID]
	if !ok {
		return nil, rounddb.ErrNotFound
	}
	cp := *r
	cp.InvitedPlayers = slices.Clone(r.InvitedPlayers)
	return &cp, nil
}

func (f *FakeRoundRepo) GetRoundByJoinCode(ctx context.Context, db bun.IDB, code string) (*rounddomain.Round, error) {
	f.record("GetRoundByJoinCode")
	if f.GetRoundByJoinCodeFunc != nil {
		return f.GetRoundByJoinCodeFunc(ctx, db, code)
	}
	for _, r := range f.rounds {
		if r.JoinCode == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) UpdateInvitedPlayers(ctx context.Context, db bun.IDB, roundID string, players []string) error {
	f.record("UpdateInvitedPlayers")
	if f.UpdateInvitedPlayersFunc != nil {
		return f.UpdateInvitedPlayersFunc(ctx, db, roundID, players)
	}
	if r, ok := f.rounds[roundID]; ok {
		r.InvitedPlayers = slices.Clone(players)
	}
	return nil
}

func (f *FakeRoundRepo) ListRoundsByInvitee(ctx context.Context, db bun.IDB, playerName string) ([]*rounddomain.Round, error) {
	f.record("ListRoundsByInvitee")
	var out []*rounddomain.Round
	for _, id := range f.sortedRoundIDs() {
		r := f.rounds[id]
		if slices.Contains(r.InvitedPlayers, playerName) {
			cp := *r
			cp.InvitedPlayers = slices.Clone(r.InvitedPlayers)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *FakeRoundRepo) DeleteRound(ctx context.Context, db bun.IDB, roundID string) error {
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, db, roundID)
	}
	delete(f.rounds, roundID)
	return nil
}

func (f *FakeRoundRepo) CountRounds(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountRounds")
	return len(f.rounds), nil
}

func (f *FakeRoundRepo) PutDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string, snap *rounddomain.Snapshot) error {
	f.record("PutDocument:" + string(c))
	if f.PutDocumentFunc != nil {
		return f.PutDocumentFunc(ctx, db, c, key, snap)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	f.docs[c][key] = body
	return nil
}

func (f *FakeRoundRepo) GetDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) (*rounddomain.Snapshot, error) {
	f.record("GetDocument:" + string(c))
	body, ok := f.docs[c][key]
	if !ok {
		return nil, rounddb.ErrNotFound
	}
	var snap rounddomain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (f *FakeRoundRepo) DeleteDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) error {
	f.record("DeleteDocument:" + string(c))
	if f.DeleteDocumentFunc != nil {
		return f.DeleteDocumentFunc(ctx, db, c, key)
	}
	delete(f.docs[c], key)
	return nil
}

func (f *FakeRoundRepo) ListDocuments(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error) {
	f.record("ListDocuments:" + string(c))
	keys := make([]string, 0, len(f.docs[c]))
	for k := range f.docs[c] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*rounddomain.Snapshot
	for _, k := range keys {
		snap, err := f.GetDocument(ctx, db, c, k)
		if err != nil {
			return nil, err
		}
		if roundID == "" || snap.RoundID == roundID {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (f *FakeRoundRepo) CountDocuments(ctx context.Context, db bun.IDB) (map[rounddomain.Collection]int, error) {
	f.record("CountDocuments")
	out := make(map[rounddomain.Collection]int, len(f.docs))
	for c, docs := range f.docs {
		out[c] = len(docs)
	}
	return out, nil
}

func (f *FakeRoundRepo) CountRoundReferences(ctx context.Context, db bun.IDB, roundID string) (int, error) {
	f.record("CountRoundReferences")
	if f.CountRoundReferencesFunc != nil {
		return f.CountRoundReferencesFunc(ctx, db, roundID)
	}
	n := 0
	for c := range f.docs {
		for k := range f.docs[c] {
			snap, err := f.GetDocument(ctx, db, c, k)
			if err != nil {
				return 0, err
			}
			if snap.RoundID == roundID {
				n++
			}
		}
	}
	return n, nil
}

func (f *FakeRoundRepo) RenamePlayer(ctx context.Context, db bun.IDB, oldName, newName string) (int, error) {
	f.record("RenamePlayer")
	n := 0
	for c := range f.docs {
		for k := range f.docs[c] {
			snap, err := f.GetDocument(ctx, db, c, k)
			if err != nil {
				return 0, err
			}
			if snap.PlayerName != oldName {
				continue
			}
			snap.PlayerName = newName
			body, err := json.Marshal(snap)
			if err != nil {
				return 0, err
			}
			f.docs[c][k] = body
			n++
		}
	}
	return n, nil
}

// --- Seeding and accessors for assertions ---

func (f *FakeRoundRepo) seedRound(r *rounddomain.Round) {
	cp := *r
	f.rounds[r.ID] = &cp
}

func (f *FakeRoundRepo) seed(c rounddomain.Collection, key string, snap *rounddomain.Snapshot) {
	body, err := json.Marshal(snap)
	if err != nil {
		panic(err)
	}
	f.docs[c][key] = body
}

func (f *FakeRoundRepo) has(c rounddomain.Collection, key string) bool {
	_, ok := f.docs[c][key]
	return ok
}

func (f *FakeRoundRepo) hasRound(id string) bool {
	_, ok := f.rounds[id]
	return ok
}

func (f *FakeRoundRepo) sortedRoundIDs() []string {
	ids := make([]string, 0, len(f.rounds))
	for id := range f.rounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)

// ------------------------
// Fake Cleanup Scheduler
// ------------------------

type FakeCleanupScheduler struct {
	scheduled []string
	Err       error
}

func (f *FakeCleanupScheduler) ScheduleRoundCleanup(ctx context.Context, roundID string) error {
	f.scheduled = append(f.scheduled, roundID)
	return f.Err
}
