// Package repo archives result rows in ClickHouse
package repo

import (
	"context"

	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/store"
	resdom "oraflow/internal/services/results/domain"
)

// Table receives one row per significant term per library per run
const Table = "ora_results"

// Schema creates the archive table; run_id and library lead the sort key
const Schema = `CREATE TABLE IF NOT EXISTS ora_results (
	run_id      String,
	library     LowCardinality(String),
	term_id     String,
	description String,
	count       UInt32,
	query_size  UInt32,
	term_size   UInt32,
	universe    UInt32,
	pvalue      Float64,
	p_adjust    Float64,
	qvalue      Float64,
	gene_ids    Array(String),
	symbols     Array(String),
	started_at  DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (run_id, library, term_id)`

// CH implements domain.ArchivePort
type CH struct {
	ch store.Clickhouse
}

// NewCH binds the archive to a ClickHouse seam
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("report: nil clickhouse")
	}
	return &CH{ch: c}
}

// EnsureSchema creates the archive table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	if err := c.ch.Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeStorage, "create "+Table)
	}
	return nil
}

// Archive inserts every row of agg in one batch and returns the row count
func (c *CH) Archive(ctx context.Context, agg resdom.Aggregate) (int, error) {
	rows := Rows(agg)
	if err := c.ch.Insert(ctx, Table, rows); err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeStorage, "insert "+Table)
	}
	return len(rows), nil
}

// Rows flattens agg into column ordered insert rows
func Rows(agg resdom.Aggregate) [][]any {
	var out [][]any
	started := agg.Meta.StartedAt.UTC()
	for _, lib := range agg.Libraries {
		for _, r := range lib.Rows {
			ids := make([]string, len(r.Genes))
			for i, g := range r.Genes {
				ids[i] = string(g)
			}
			out = append(out, []any{
				agg.Meta.RunID,
				lib.Tag,
				r.TermID,
				r.Description,
				uint32(r.Count),
				uint32(r.QuerySize),
				uint32(r.TermSize),
				uint32(r.Universe),
				r.P,
				r.PAdjust,
				r.Q,
				ids,
				r.Symbols,
				started,
			})
		}
	}
	return out
}
