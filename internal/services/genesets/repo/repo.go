// Package repo provides gene-set sources: a GMT directory and a SQL store for postgres or sqlite
package repo

import (
	"context"

	"oraflow/internal/core/gmt"
	"oraflow/internal/modkit/repokit"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/services/genesets/domain"

	sq "github.com/Masterminds/squirrel"
)

// Storage is the SQL backed source plus the import surface
type Storage interface {
	domain.Source
	EnsureSchema(ctx context.Context) error
	// ReplaceLibrary drops every term of library and inserts sets; run it inside a tx
	ReplaceLibrary(ctx context.Context, library string, sets []gmt.Set) (int, error)
}

// Schema is shared by postgres and sqlite
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS ora_gene_sets (
		library     TEXT NOT NULL,
		term_id     TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (library, term_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ora_gene_set_members (
		library TEXT NOT NULL,
		term_id TEXT NOT NULL,
		pos     INTEGER NOT NULL,
		member  TEXT NOT NULL,
		PRIMARY KEY (library, term_id, pos)
	)`,
}

// chunk bounds rows per multi row insert
const chunk = 300

type (
	sqlRepo struct {
		q  repokit.Queryer
		sb sq.StatementBuilderType
	}
	binder struct{ d repokit.Dialect }
)

// New constructs a repo binder for the dialect
func New(d repokit.Dialect) repokit.Binder[Storage] { return binder{d: d} }

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return New(repokit.Postgres) }

// NewSQLite constructs a repo binder for an embedded sqlite bundle
func NewSQLite() repokit.Binder[Storage] { return New(repokit.SQLite) }

// Bind implements repokit.Binder
func (b binder) Bind(q repokit.Queryer) Storage {
	return &sqlRepo{q: q, sb: repokit.SB(b.d)}
}

// EnsureSchema implements Storage; idempotent
func (r *sqlRepo) EnsureSchema(ctx context.Context) error {
	for _, ddl := range Schema {
		if _, err := r.q.Exec(ctx, ddl); err != nil {
			return perr.FromStore(err, "create gene set schema")
		}
	}
	return nil
}

// ReplaceLibrary implements Storage
func (r *sqlRepo) ReplaceLibrary(ctx context.Context, library string, sets []gmt.Set) (int, error) {
	for _, table := range []string{"ora_gene_set_members", "ora_gene_sets"} {
		if _, err := repokit.Exec(ctx, r.q, r.sb.Delete(table).Where(sq.Eq{"library": library})); err != nil {
			return 0, perr.WithField(err, library)
		}
	}
	for start := 0; start < len(sets); start += chunk {
		part := sets[start:min(start+chunk, len(sets))]
		terms := r.sb.Insert("ora_gene_sets").Columns("library", "term_id", "description")
		for _, s := range part {
			terms = terms.Values(library, s.Name, s.Description)
		}
		if _, err := repokit.Exec(ctx, r.q, terms); err != nil {
			return 0, perr.WithField(err, library)
		}
		members := r.sb.Insert("ora_gene_set_members").Columns("library", "term_id", "pos", "member")
		rows := 0
		for _, s := range part {
			for i, g := range s.Genes {
				members = members.Values(library, s.Name, i, g)
				rows++
				if rows == chunk {
					if _, err := repokit.Exec(ctx, r.q, members); err != nil {
						return 0, perr.WithField(err, library)
					}
					members = r.sb.Insert("ora_gene_set_members").Columns("library", "term_id", "pos", "member")
					rows = 0
				}
			}
		}
		if rows > 0 {
			if _, err := repokit.Exec(ctx, r.q, members); err != nil {
				return 0, perr.WithField(err, library)
			}
		}
	}
	return len(sets), nil
}

// Sets implements domain.Source; terms come back ordered by id with members in file order
func (r *sqlRepo) Sets(ctx context.Context, library string) ([]gmt.Set, error) {
	rows, err := repokit.Select(ctx, r.q, r.sb.Select("term_id", "description").From("ora_gene_sets").
		Where(sq.Eq{"library": library}).OrderBy("term_id"))
	if err != nil {
		return nil, perr.WithField(err, library)
	}
	var out []gmt.Set
	index := map[string]int{}
	for rows.Next() {
		var s gmt.Set
		if err := rows.Scan(&s.Name, &s.Description); err != nil {
			rows.Close()
			return nil, perr.WithField(perr.FromStore(err, "scan gene sets"), library)
		}
		index[s.Name] = len(out)
		out = append(out, s)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, perr.WithField(perr.FromStore(err, "iterate gene sets"), library)
	}
	if len(out) == 0 {
		return nil, perr.WithField(perr.NotFoundf("library %s is not imported", library), library)
	}

	rows, err = repokit.Select(ctx, r.q, r.sb.Select("term_id", "member").From("ora_gene_set_members").
		Where(sq.Eq{"library": library}).OrderBy("term_id", "pos"))
	if err != nil {
		return nil, perr.WithField(err, library)
	}
	defer rows.Close()
	for rows.Next() {
		var term, member string
		if err := rows.Scan(&term, &member); err != nil {
			return nil, perr.WithField(perr.FromStore(err, "scan members"), library)
		}
		if i, ok := index[term]; ok {
			out[i].Genes = append(out[i].Genes, member)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, perr.WithField(perr.FromStore(err, "iterate members"), library)
	}
	return out, nil
}

// Names implements domain.Source
func (r *sqlRepo) Names(ctx context.Context) ([]string, error) {
	rows, err := repokit.Select(ctx, r.q, r.sb.Select("DISTINCT library").From("ora_gene_sets").OrderBy("library"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, perr.FromStore(err, "scan libraries")
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromStore(err, "iterate libraries")
	}
	return out, nil
}
