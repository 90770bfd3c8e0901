package testutil

import (
	"context"
	"database/sql"
	"parly-backend/internal/db"
	configlibsql "parly-backend/lib/configutil/libsql"
	"parly-backend/pkg/migrations"
	"testing"
)

// OpenDB opens an in-memory sqlite database with the schema applied. It is
// closed when the test finishes, closing it earlier is fine.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := configlibsql.OpenSqlite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	err = migrations.Apply(context.Background(), database, db.Schema, db.SchemaVersion)
	if err != nil {
		t.Fatal(err)
	}
	return database
}
