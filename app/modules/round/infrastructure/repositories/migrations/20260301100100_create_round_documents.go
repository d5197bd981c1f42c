package roundmigrations

import (
	"context"
	"fmt"

	rounddb "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			fmt.Println("Creating round_documents table...")
			if _, err := tx.NewCreateTable().Model((*rounddb.Document)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create round_documents table: %w", err)
			}

			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_round_documents_round ON round_documents (collection, round_id)`,
				`CREATE INDEX IF NOT EXISTS idx_round_documents_round_id ON round_documents (round_id)`,
				`CREATE INDEX IF NOT EXISTS idx_round_documents_player_name ON round_documents (player_name)`,
				`CREATE INDEX IF NOT EXISTS idx_rounds_invited_players ON rounds USING GIN (invited_players)`,
			}
			for _, stmt := range indexes {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create index: %w", err)
				}
			}
			fmt.Println("round_documents table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping round_documents table...")
		if _, err := db.ExecContext(ctx, `DROP INDEX IF EXISTS idx_rounds_invited_players`); err != nil {
			return fmt.Errorf("failed to drop invitee index: %w", err)
		}
		if _, err := db.NewDropTable().Model((*rounddb.Document)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop round_documents table: %w", err)
		}
		fmt.Println("round_documents table dropped successfully!")
		return nil
	})
}
