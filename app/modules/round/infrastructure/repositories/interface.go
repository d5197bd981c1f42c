package rounddb

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for round and snapshot persistence.
// Every method takes an optional bun.IDB so callers can run it inside a
// transaction; nil uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: the round or document does not exist
//   - Deletes are idempotent and never return ErrNotFound
//   - Other errors: infrastructure failures
type Repository interface {
	CreateRound(ctx context.Context, db bun.IDB, round *rounddomain.Round) error
	GetRound(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error)
	GetRoundByJoinCode(ctx context.Context, db bun.IDB, code string) (*rounddomain.Round, error)
	UpdateInvitedPlayers(ctx context.Context, db bun.IDB, roundID string, players []string) error
	ListRoundsByInvitee(ctx context.Context, db bun.IDB, playerName string) ([]*rounddomain.Round, error)
	DeleteRound(ctx context.Context, db bun.IDB, roundID string) error
	CountRounds(ctx context.Context, db bun.IDB) (int, error)

	// PutDocument replaces the whole document stored under key.
	PutDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string, snap *rounddomain.Snapshot) error
	GetDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) (*rounddomain.Snapshot, error)
	DeleteDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) error
	// ListDocuments returns a collection's snapshots, restricted to one round
	// when roundID is not empty.
	ListDocuments(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error)
	CountDocuments(ctx context.Context, db bun.IDB) (map[rounddomain.Collection]int, error)
	// CountRoundReferences counts documents in any collection that point at roundID.
	CountRoundReferences(ctx context.Context, db bun.IDB, roundID string) (int, error)
	// RenamePlayer rewrites playerName in every document that carries oldName.
	RenamePlayer(ctx context.Context, db bun.IDB, oldName, newName string) (int, error)
}
