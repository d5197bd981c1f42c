package testutils

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CleanRoundTables truncates the round descriptor and document tables.
func CleanRoundTables(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewRaw("TRUNCATE TABLE round_documents, rounds").Exec(ctx); err != nil {
		return fmt.Errorf("failed to truncate round tables: %w", err)
	}
	return nil
}
