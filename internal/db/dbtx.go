package db

import (
	"context"
	"database/sql"
)

// DBTX is what the shopfloor repositories query through. Reads for a
// schedule preview run on the *sql.DB; an import or a plan commit hands the
// same repositories the *sql.Tx from UnitOfWork so all rows land together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
