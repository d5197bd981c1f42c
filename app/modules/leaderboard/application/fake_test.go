package leaderboardservice

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Snapshot Reader
// ------------------------

type FakeSnapshotReader struct {
	mu    sync.Mutex
	trace []string

	round *rounddomain.Round
	docs  map[rounddomain.Collection][]*rounddomain.Snapshot

	ListDocumentsFunc func(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error)
}

func NewFakeSnapshotReader(round *rounddomain.Round) *FakeSnapshotReader {
	return &FakeSnapshotReader{
		trace: []string{},
		round: round,
		docs:  map[rounddomain.Collection][]*rounddomain.Snapshot{},
	}
}

func (f *FakeSnapshotReader) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSnapshotReader) GetRound(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetRound")
	if f.round == nil || f.round.ID != roundID {
		return nil, rounddb.ErrNotFound
	}
	cp := *f.round
	return &cp, nil
}

func (f *FakeSnapshotReader) ListDocuments(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListDocuments:" + string(c))
	if f.ListDocumentsFunc != nil {
		return f.ListDocumentsFunc(ctx, db, c, roundID)
	}
	var out []*rounddomain.Snapshot
	for _, s := range f.docs[c] {
		if s.RoundID == roundID {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (f *FakeSnapshotReader) put(c rounddomain.Collection, snaps ...*rounddomain.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[c] = append(f.docs[c], snaps...)
}

func (f *FakeSnapshotReader) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Metrics
// ------------------------

type fakeMetrics struct {
	recomputes atomic.Int64
	stale      atomic.Int64
	skipped    atomic.Int64
	watchers   atomic.Int64
}

func (m *fakeMetrics) RecordRecompute(context.Context, string, time.Duration) { m.recomputes.Add(1) }
func (m *fakeMetrics) RecordStaleDiscard(context.Context)                     { m.stale.Add(1) }
func (m *fakeMetrics) RecordPublishSkipped(context.Context)                   { m.skipped.Add(1) }
func (m *fakeMetrics) WatcherStarted(context.Context)                         { m.watchers.Add(1) }
func (m *fakeMetrics) WatcherStopped(context.Context)                         { m.watchers.Add(-1) }
