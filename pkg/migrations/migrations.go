package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

func wrapApply(err error) error {
	return fmt.Errorf("apply schema: %w", err)
}

// Apply brings `db` up to `schema`. The schema must be idempotent (CREATE ... IF NOT EXISTS),
// `version` is recorded in PRAGMA user_version so that a newer binary can tell which
// schema an existing database file was created with.
func Apply(ctx context.Context, db *sql.DB, schema string, version int) error {
	var current int
	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current)
	if err != nil {
		return wrapApply(err)
	}
	if current > version {
		return wrapApply(fmt.Errorf(
			"database schema version %d is newer than this binary (%d)",
			current, version,
		))
	}

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		return wrapApply(err)
	}

	if current != version {
		_, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
		if err != nil {
			return wrapApply(err)
		}
		slog.Info("schema applied", "from", current, "to", version)
	}
	return nil
}
