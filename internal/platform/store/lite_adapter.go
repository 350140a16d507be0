package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"oraflow/internal/platform/store/pg"
)

// liteAdapter exposes a database/sql handle (sqlite) through the same TxRunner seam as postgres
type liteAdapter struct {
	db *sql.DB
	tracing
}

func newLiteAdapter(db *sql.DB, tracer pg.QueryTracer) *liteAdapter {
	return &liteAdapter{db: db, tracing: tracing{tracer: tracer}}
}

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.db.PingContext(ctx)
}

func (a *liteAdapter) Close() error { return a.db.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlQuerier{q: a.db, tracing: a.tracing}.Exec(ctx, q, args...)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuerier{q: a.db, tracing: a.tracing}.Query(ctx, q, args...)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return sqlQuerier{q: a.db, tracing: a.tracing}.QueryRow(ctx, q, args...)
}

// Tx commits when fn returns nil and rolls back otherwise
func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlQuerier{q: tx, tracing: a.tracing}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// dbQuerier is the part of *sql.DB and *sql.Tx the adapter needs
type dbQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlQuerier struct {
	q dbQuerier
	tracing
}

func (x sqlQuerier) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := x.q.ExecContext(ctx, q, args...)
	x.emit(ctx, q, args, start, err)
	if err != nil {
		return resultTag{}, err
	}
	n, _ := res.RowsAffected()
	return resultTag{n: n}, nil
}

func (x sqlQuerier) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := x.q.QueryContext(ctx, q, args...)
	x.emit(ctx, q, args, start, err)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func (x sqlQuerier) QueryRow(ctx context.Context, q string, args ...any) Row {
	start := time.Now()
	r := x.q.QueryRowContext(ctx, q, args...)
	return tracedRow{r: r, after: func(err error) { x.emit(ctx, q, args, start, err) }}
}

// resultTag renders like a pg command tag minus the verb
type resultTag struct{ n int64 }

func (t resultTag) String() string      { return fmt.Sprintf("OK %d", t.n) }
func (t resultTag) RowsAffected() int64 { return t.n }

type sqlRows struct{ r *sql.Rows }

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Err() error            { return x.r.Err() }
func (x *sqlRows) Close()                { _ = x.r.Close() }
func (x *sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}
