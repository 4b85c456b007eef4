// Package dbtest opens throwaway, fully migrated sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"task-service/database"

	"github.com/jmoiron/sqlx"
)

// Open returns a migrated database living in t.TempDir(), pooled exactly
// like the server's connection
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	dbConn := database.Open("sqlite3", filepath.Join(t.TempDir(), "task_service_test.db"))
	t.Cleanup(func() { dbConn.Close() })

	if err := database.Migrate(context.Background(), dbConn.DB, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbConn
}
