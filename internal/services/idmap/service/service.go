// Package service implements the identifier mapper
package service

import (
	"context"

	"oraflow/internal/core/geneid"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	dom "oraflow/internal/services/idmap/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Mapper implements domain.MapperPort over an injected provider
type Mapper struct {
	Provider dom.AnnotationProvider
}

// New constructs a Mapper; provider is required
func New(p dom.AnnotationProvider) *Mapper {
	if p == nil {
		panic("idmap: nil annotation provider")
	}
	return &Mapper{Provider: p}
}

// Map classifies raw ids, resolves each class batch concurrently, then applies overrides to what
// is still unresolved and dedups by CanonicalID keeping input order
func (m *Mapper) Map(ctx context.Context, raw []string, overrides dom.Overrides) (dom.Mapping, error) {
	uniq := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		uniq = append(uniq, r)
	}

	batches := geneid.Partition(uniq)
	var byAcc, bySym, byAlias map[string]geneid.CanonicalID

	g, gctx := errgroup.WithContext(ctx)
	if b := batches[geneid.ClassAccession]; len(b) > 0 {
		g.Go(func() (err error) {
			byAcc, err = m.Provider.ResolveByAccession(gctx, b)
			return err
		})
	}
	if b := batches[geneid.ClassSymbol]; len(b) > 0 {
		g.Go(func() (err error) {
			bySym, err = m.Provider.ResolveBySymbol(gctx, b)
			return err
		})
	}
	if b := batches[geneid.ClassUnclassified]; len(b) > 0 {
		g.Go(func() (err error) {
			byAlias, err = m.Provider.ResolveBySymbol(gctx, b)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return dom.Mapping{}, perr.WithOp(err, "map")
	}

	out := dom.Mapping{
		Total:    len(uniq),
		Mapped:   make([]geneid.CanonicalID, 0, len(uniq)),
		Unmapped: []string{},
		Resolved: make(map[string]geneid.CanonicalID, len(uniq)),
	}
	have := make(map[geneid.CanonicalID]struct{}, len(uniq))
	for _, r := range uniq {
		id, ok := lookup(r, byAcc, bySym, byAlias)
		if !ok {
			if ov, hit := overrides[r]; hit && ov != "" {
				id, ok = ov, true
				out.ByOverride = append(out.ByOverride, r)
			}
		}
		if !ok {
			out.Unmapped = append(out.Unmapped, r)
			continue
		}
		out.Resolved[r] = id
		if _, dup := have[id]; dup {
			continue
		}
		have[id] = struct{}{}
		out.Mapped = append(out.Mapped, id)
	}

	logger.C(ctx).WithLevel(summaryLevel(ctx)).
		Int("resolved", len(out.Resolved)).
		Int("total", out.Total).
		Int("unmapped", len(out.Unmapped)).
		Int("override", len(out.ByOverride)).
		Msgf("resolved %d of %d", len(out.Resolved), out.Total)
	return out, nil
}

// summaryLevel keeps the query's mapping summary at info; library member loads drop to debug
func summaryLevel(ctx context.Context) zerolog.Level {
	if dom.IsMemberMapping(ctx) {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func lookup(r string, tables ...map[string]geneid.CanonicalID) (geneid.CanonicalID, bool) {
	for _, t := range tables {
		if id, ok := t[r]; ok && id != "" {
			return id, true
		}
	}
	return "", false
}
