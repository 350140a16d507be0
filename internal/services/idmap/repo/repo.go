// Package repo provides annotation providers: an in memory table and a SQL store for postgres or sqlite
package repo

import (
	"context"
	"strings"

	"oraflow/internal/core/geneid"
	"oraflow/internal/modkit/repokit"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/services/idmap/domain"

	sq "github.com/Masterminds/squirrel"
)

// Storage is the SQL backed annotation provider plus the import surface
type Storage interface {
	domain.AnnotationProvider
	domain.Counter
	domain.SymbolLookup
	EnsureSchema(ctx context.Context) error
	UpsertGenes(ctx context.Context, genes []domain.Gene) (int, error)
}

// Schema is shared by postgres and sqlite
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS ora_genes (
		organism TEXT NOT NULL,
		gene_id  TEXT NOT NULL,
		symbol   TEXT NOT NULL,
		PRIMARY KEY (organism, gene_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ora_genes_symbol ON ora_genes (organism, symbol)`,
	`CREATE TABLE IF NOT EXISTS ora_gene_names (
		organism TEXT NOT NULL,
		kind     TEXT NOT NULL,
		name     TEXT NOT NULL,
		gene_id  TEXT NOT NULL,
		PRIMARY KEY (organism, kind, name)
	)`,
}

const (
	kindAlias     = "alias"
	kindAccession = "accession"

	// chunk keeps IN lists and multi row inserts well under driver parameter limits
	chunk = 500
)

type (
	sqlRepo struct {
		q        repokit.Queryer
		sb       sq.StatementBuilderType
		organism string
	}
	binder struct {
		d        repokit.Dialect
		organism string
	}
)

// New constructs a repo binder for the dialect, scoped to one organism
func New(d repokit.Dialect, organism string) repokit.Binder[Storage] {
	return binder{d: d, organism: organism}
}

// NewPG constructs a repo binder for Postgres
func NewPG(organism string) repokit.Binder[Storage] { return New(repokit.Postgres, organism) }

// NewSQLite constructs a repo binder for an embedded sqlite bundle
func NewSQLite(organism string) repokit.Binder[Storage] { return New(repokit.SQLite, organism) }

// Bind implements repokit.Binder
func (b binder) Bind(q repokit.Queryer) Storage {
	return &sqlRepo{q: q, sb: repokit.SB(b.d), organism: b.organism}
}

// EnsureSchema implements Storage; idempotent
func (r *sqlRepo) EnsureSchema(ctx context.Context) error {
	for _, ddl := range Schema {
		if _, err := r.q.Exec(ctx, ddl); err != nil {
			return perr.FromStore(err, "create annotation schema")
		}
	}
	return nil
}

// UpsertGenes implements Storage; a re-imported gene takes the new symbol, names are insert once
// duplicate ids in genes keep the first record, as Memory does
func (r *sqlRepo) UpsertGenes(ctx context.Context, genes []domain.Gene) (int, error) {
	seen := make(map[geneid.CanonicalID]struct{}, len(genes))
	uniq := make([]domain.Gene, 0, len(genes))
	for _, g := range genes {
		if _, dup := seen[g.ID]; dup || g.ID == "" {
			continue
		}
		seen[g.ID] = struct{}{}
		uniq = append(uniq, g)
	}
	genes = uniq
	n := 0
	for start := 0; start < len(genes); start += chunk {
		part := genes[start:min(start+chunk, len(genes))]
		ins := r.sb.Insert("ora_genes").Columns("organism", "gene_id", "symbol").
			Suffix("ON CONFLICT (organism, gene_id) DO UPDATE SET symbol = excluded.symbol")
		names := r.sb.Insert("ora_gene_names").Columns("organism", "kind", "name", "gene_id").
			Suffix("ON CONFLICT DO NOTHING")
		nameRows := 0
		for _, g := range part {
			ins = ins.Values(r.organism, string(g.ID), g.Symbol)
			for _, a := range g.Aliases {
				names = names.Values(r.organism, kindAlias, a, string(g.ID))
				nameRows++
			}
			for _, a := range g.Accessions {
				names = names.Values(r.organism, kindAccession, a, string(g.ID))
				nameRows++
			}
		}
		if _, err := repokit.Exec(ctx, r.q, ins); err != nil {
			return n, err
		}
		if nameRows > 0 {
			if _, err := repokit.Exec(ctx, r.q, names); err != nil {
				return n, err
			}
		}
		n += len(part)
	}
	return n, nil
}

// ResolveByAccession implements domain.AnnotationProvider
func (r *sqlRepo) ResolveByAccession(ctx context.Context, accs []string) (map[string]geneid.CanonicalID, error) {
	out := make(map[string]geneid.CanonicalID, len(accs))
	keys := make([]string, 0, 2*len(accs))
	for _, a := range accs {
		keys = append(keys, accessionKeys(a)...)
	}
	direct, err := r.pairs(ctx, "gene_id", "gene_id", "ora_genes", nil, keys)
	if err != nil {
		return nil, err
	}
	named, err := r.pairs(ctx, "name", "gene_id", "ora_gene_names", sq.Eq{"kind": kindAccession}, keys)
	if err != nil {
		return nil, err
	}
	for _, a := range accs {
		for _, k := range accessionKeys(a) {
			if id, ok := direct[k]; ok {
				out[a] = geneid.CanonicalID(id)
				break
			}
			if id, ok := named[k]; ok {
				out[a] = geneid.CanonicalID(id)
				break
			}
		}
	}
	return out, nil
}

// ResolveBySymbol implements domain.AnnotationProvider with the same order as Memory
func (r *sqlRepo) ResolveBySymbol(ctx context.Context, syms []string) (map[string]geneid.CanonicalID, error) {
	out := make(map[string]geneid.CanonicalID, len(syms))
	official, err := r.pairs(ctx, "symbol", "gene_id", "ora_genes", nil, syms)
	if err != nil {
		return nil, err
	}
	alias, err := r.pairs(ctx, "name", "gene_id", "ora_gene_names", sq.Eq{"kind": kindAlias}, syms)
	if err != nil {
		return nil, err
	}
	var rest []string
	for _, s := range syms {
		if id, ok := official[s]; ok {
			out[s] = geneid.CanonicalID(id)
		} else if id, ok := alias[s]; ok {
			out[s] = geneid.CanonicalID(id)
		} else {
			rest = append(rest, strings.ToUpper(s))
		}
	}
	if len(rest) == 0 {
		return out, nil
	}
	upper, err := r.unique(ctx, rest)
	if err != nil {
		return nil, err
	}
	for _, s := range syms {
		if _, done := out[s]; done {
			continue
		}
		if id, ok := upper[strings.ToUpper(s)]; ok {
			out[s] = geneid.CanonicalID(id)
		}
	}
	return out, nil
}

// CountGenes implements domain.Counter
func (r *sqlRepo) CountGenes(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("count(*)").From("ora_genes").Where(sq.Eq{"organism": r.organism}).ToSql()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnknown, "build count")
	}
	var n int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, perr.FromStore(err, "count genes")
	}
	return n, nil
}

// Symbols implements domain.SymbolLookup
func (r *sqlRepo) Symbols(ctx context.Context, ids []geneid.CanonicalID) (map[geneid.CanonicalID]string, error) {
	got, err := r.pairs(ctx, "gene_id", "symbol", "ora_genes", nil, geneid.Strings(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[geneid.CanonicalID]string, len(got))
	for k, v := range got {
		out[geneid.CanonicalID(k)] = v
	}
	return out, nil
}

// pairs selects keyCol -> valCol for keys in chunks; the first row per key wins
func (r *sqlRepo) pairs(ctx context.Context, keyCol, valCol, table string, extra sq.Sqlizer, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for start := 0; start < len(keys); start += chunk {
		part := keys[start:min(start+chunk, len(keys))]
		b := r.sb.Select(keyCol, valCol).From(table).
			Where(sq.Eq{"organism": r.organism}).
			Where(sq.Eq{keyCol: part}).
			OrderBy(keyCol, valCol)
		if extra != nil {
			b = b.Where(extra)
		}
		rows, err := repokit.Select(ctx, r.q, b)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var k, v string
			if err := rows.Scan(&k, &v); err != nil {
				rows.Close()
				return nil, perr.FromStore(err, "scan "+table)
			}
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, perr.FromStore(err, "iterate "+table)
		}
	}
	return out, nil
}

// unique resolves upper cased symbols that match exactly one gene
func (r *sqlRepo) unique(ctx context.Context, uppers []string) (map[string]string, error) {
	out := map[string]string{}
	ambiguous := map[string]bool{}
	for start := 0; start < len(uppers); start += chunk {
		part := uppers[start:min(start+chunk, len(uppers))]
		b := r.sb.Select("upper(symbol)", "gene_id").From("ora_genes").
			Where(sq.Eq{"organism": r.organism}).
			Where(sq.Eq{"upper(symbol)": part})
		rows, err := repokit.Select(ctx, r.q, b)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var k, v string
			if err := rows.Scan(&k, &v); err != nil {
				rows.Close()
				return nil, perr.FromStore(err, "scan symbols")
			}
			if prev, ok := out[k]; ok && prev != v {
				ambiguous[k] = true
			}
			out[k] = v
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, perr.FromStore(err, "iterate symbols")
		}
	}
	for k := range ambiguous {
		delete(out, k)
	}
	return out, nil
}
