package rounddb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round or snapshot document does not exist.
var ErrNotFound = errors.New("not found")

// Impl implements Repository on Postgres through bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateRound inserts a new round descriptor.
func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *rounddomain.Round) error {
	db = r.resolveDB(db)
	model := fromDomainRound(round)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	round.CreatedAt = model.CreatedAt
	return nil
}

// GetRound retrieves a round descriptor by id.
func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID string) (*rounddomain.Round, error) {
	db = r.resolveDB(db)
	model := new(Round)
	err := db.NewSelect().
		Model(model).
		Where("id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return toDomainRound(model), nil
}

// GetRoundByJoinCode retrieves a round descriptor by its join code.
func (r *Impl) GetRoundByJoinCode(ctx context.Context, db bun.IDB, code string) (*rounddomain.Round, error) {
	db = r.resolveDB(db)
	model := new(Round)
	err := db.NewSelect().
		Model(model).
		Where("join_code = ?", strings.ToUpper(code)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by join code: %w", err)
	}
	return toDomainRound(model), nil
}

// UpdateInvitedPlayers replaces the invite list, the only mutable field of
// a round descriptor.
func (r *Impl) UpdateInvitedPlayers(ctx context.Context, db bun.IDB, roundID string, players []string) error {
	db = r.resolveDB(db)
	if players == nil {
		players = []string{}
	}
	encoded, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to encode invited players: %w", err)
	}
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("invited_players = ?::jsonb", string(encoded)).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update invited players: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRoundsByInvitee returns rounds whose invite list contains playerName.
func (r *Impl) ListRoundsByInvitee(ctx context.Context, db bun.IDB, playerName string) ([]*rounddomain.Round, error) {
	db = r.resolveDB(db)
	needle, err := json.Marshal([]string{playerName})
	if err != nil {
		return nil, fmt.Errorf("failed to encode invitee: %w", err)
	}
	var models []Round
	err = db.NewSelect().
		Model(&models).
		Where("invited_players @> ?::jsonb", string(needle)).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds by invitee: %w", err)
	}
	out := make([]*rounddomain.Round, len(models))
	for i := range models {
		out[i] = toDomainRound(&models[i])
	}
	return out, nil
}

// DeleteRound removes a round descriptor. Deleting a missing round succeeds.
func (r *Impl) DeleteRound(ctx context.Context, db bun.IDB, roundID string) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Round)(nil)).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return nil
}

// CountRounds returns the number of round descriptors.
func (r *Impl) CountRounds(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Round)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds: %w", err)
	}
	return n, nil
}

// PutDocument writes snap under (c, key), replacing any previous body in full.
func (r *Impl) PutDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string, snap *rounddomain.Snapshot) error {
	db = r.resolveDB(db)
	doc := &Document{
		Collection:  c,
		Key:         key,
		RoundID:     snap.RoundID,
		ScorecardID: snap.ID,
		PlayerName:  snap.PlayerName,
		Body:        snap,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err := db.NewInsert().
		Model(doc).
		On("CONFLICT (collection, doc_key) DO UPDATE").
		Set("round_id = EXCLUDED.round_id").
		Set("scorecard_id = EXCLUDED.scorecard_id").
		Set("player_name = EXCLUDED.player_name").
		Set("body = EXCLUDED.body").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put %s document: %w", c, err)
	}
	return nil
}

// GetDocument reads the snapshot stored under (c, key).
func (r *Impl) GetDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) (*rounddomain.Snapshot, error) {
	db = r.resolveDB(db)
	doc := new(Document)
	err := db.NewSelect().
		Model(doc).
		Where("collection = ?", c).
		Where("doc_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s document: %w", c, err)
	}
	return documentSnapshot(doc), nil
}

// DeleteDocument removes (c, key). Deleting a missing document succeeds.
func (r *Impl) DeleteDocument(ctx context.Context, db bun.IDB, c rounddomain.Collection, key string) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Document)(nil)).
		Where("collection = ?", c).
		Where("doc_key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s document: %w", c, err)
	}
	return nil
}

// ListDocuments lists a collection, optionally restricted to one round.
func (r *Impl) ListDocuments(ctx context.Context, db bun.IDB, c rounddomain.Collection, roundID string) ([]*rounddomain.Snapshot, error) {
	db = r.resolveDB(db)
	var docs []Document
	q := db.NewSelect().
		Model(&docs).
		Where("collection = ?", c).
		OrderExpr("doc_key ASC")
	if roundID != "" {
		q = q.Where("round_id = ?", roundID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", c, err)
	}
	out := make([]*rounddomain.Snapshot, 0, len(docs))
	for i := range docs {
		if s := documentSnapshot(&docs[i]); s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// CountDocuments returns the number of documents per collection.
func (r *Impl) CountDocuments(ctx context.Context, db bun.IDB) (map[rounddomain.Collection]int, error) {
	db = r.resolveDB(db)
	var rows []CollectionCount
	err := db.NewSelect().
		Model((*Document)(nil)).
		Column("collection").
		ColumnExpr("count(*) AS count").
		Group("collection").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	out := make(map[rounddomain.Collection]int, len(rounddomain.AllCollections))
	for _, c := range rounddomain.AllCollections {
		out[c] = 0
	}
	for _, row := range rows {
		out[row.Collection] = row.Count
	}
	return out, nil
}

// CountRoundReferences counts documents in every collection that belong to roundID.
func (r *Impl) CountRoundReferences(ctx context.Context, db bun.IDB, roundID string) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Document)(nil)).
		Where("round_id = ?", roundID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count round references: %w", err)
	}
	return n, nil
}

// RenamePlayer rewrites the player name column and the name inside the body.
func (r *Impl) RenamePlayer(ctx context.Context, db bun.IDB, oldName, newName string) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Document)(nil)).
		Set("player_name = ?", newName).
		Set("body = jsonb_set(body, '{playerName}', to_jsonb(?::text))", newName).
		Set("updated_at = ?", time.Now().UTC()).
		Where("player_name = ?", oldName).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to rename player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

// documentSnapshot fills identity fields a hand-edited body may be missing
// from the row's own columns.
func documentSnapshot(doc *Document) *rounddomain.Snapshot {
	s := doc.Body
	if s == nil {
		return nil
	}
	if s.ID == "" {
		s.ID = doc.ScorecardID
	}
	if s.RoundID == "" {
		s.RoundID = doc.RoundID
	}
	return s
}
