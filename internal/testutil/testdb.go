package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a private in-memory store with the shopfloor schema
// (shifts, machines, setups, requests, plans). It is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory shopfloor store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database for services that import plans or commit
// schedules.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
