// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/store"

	sq "github.com/Masterminds/squirrel"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows
	// Row is a single row result from a query
	Row = store.Row
	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// Dialect names the SQL flavour a repo talks to
type Dialect string

const (
	// Postgres uses $n placeholders
	Postgres Dialect = "pg"
	// SQLite uses ? placeholders
	SQLite Dialect = "sqlite"
)

// SB returns a squirrel statement builder with the dialect's placeholder format
func SB(d Dialect) sq.StatementBuilderType {
	if d == Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// Select renders b and runs it, wrapping build failures as internal errors
func Select(ctx context.Context, q Queryer, b sq.Sqlizer) (Rows, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build query")
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromStore(err, "query")
	}
	return rows, nil
}

// Exec renders b and executes it
func Exec(ctx context.Context, q Queryer, b sq.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnknown, "build statement")
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, perr.FromStore(err, "exec")
	}
	return tag.RowsAffected(), nil
}
