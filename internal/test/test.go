package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"podcast-studio/internal/db"
	"podcast-studio/internal/store"
)

// NewMockStore returns a store over a sqlmock connection. The connection is
// registered as postgres so queries are rebound to $N placeholders.
func NewMockStore(t *testing.T, opts ...db.Option) (*db.Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	sqlxDB := sqlx.NewDb(mockDb, db.DriverPostgres)
	t.Cleanup(func() {
		mockDb.Close()
	})
	return db.New(sqlxDB, opts...), mock
}

// NewSQLiteStore opens a migrated SQLite store in a temporary directory.
func NewSQLiteStore(t *testing.T, clock store.Clock) *db.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podcast.db")
	st, err := db.Open(context.Background(), db.DriverSQLite, path, db.WithClock(clock))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, _, err := st.Migrate(); err != nil {
		t.Fatalf("migrate sqlite store: %v", err)
	}
	return st
}
