package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is the query gateway the entity models run their statements
// through. *pgxpool.Pool satisfies it, and tests substitute fakes. It carries
// no business logic: one SQL string, one ordered argument list, rows or an
// affected-row count out.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
