// Package service assembles tagged gene-set libraries in the canonical id namespace
package service

import (
	"context"
	"slices"

	"oraflow/internal/core/geneid"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	dom "oraflow/internal/services/genesets/domain"
	idmapdom "oraflow/internal/services/idmap/domain"
)

// Catalog implements domain.CatalogPort
// members are mapped through the same mapper as queries so every library shares one namespace
type Catalog struct {
	Source    dom.Source
	Mapper    idmapdom.MapperPort
	Overrides idmapdom.Overrides
	specs     []dom.LibrarySpec
}

// New constructs a Catalog serving specs
func New(src dom.Source, mapper idmapdom.MapperPort, overrides idmapdom.Overrides, specs []dom.LibrarySpec) *Catalog {
	if src == nil || mapper == nil {
		panic("genesets: catalog needs a source and a mapper")
	}
	return &Catalog{Source: src, Mapper: mapper, Overrides: overrides, specs: slices.Clone(specs)}
}

// Specs implements domain.CatalogPort
func (c *Catalog) Specs() []dom.LibrarySpec { return slices.Clone(c.specs) }

// Load implements domain.CatalogPort; every call builds an independent library
func (c *Catalog) Load(ctx context.Context, spec dom.LibrarySpec) (*dom.Library, error) {
	if spec.Tag == "" {
		return nil, perr.WithOp(perr.Configf("library spec without a tag"), "load")
	}
	var (
		lib *dom.Library
		err error
	)
	if spec.IsFocus() {
		lib, err = c.focus(ctx, spec)
	} else {
		src := spec.Source
		if src == "" {
			src = spec.Tag
		}
		lib, err = c.build(ctx, spec.Tag, src)
	}
	if err != nil {
		return nil, perr.WithOp(perr.WithField(err, spec.Tag), "load")
	}
	return lib, nil
}

// build reads one source library and maps its members, dropping terms left without genes
func (c *Catalog) build(ctx context.Context, tag, source string) (*dom.Library, error) {
	sets, err := c.Source.Sets(ctx, source)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, s := range sets {
		tokens = append(tokens, s.Genes...)
	}
	m, err := c.Mapper.Map(idmapdom.WithMemberMapping(ctx), tokens, c.Overrides)
	if err != nil {
		return nil, err
	}

	terms := make([]dom.Term, 0, len(sets))
	for _, s := range sets {
		seen := make(map[geneid.CanonicalID]struct{}, len(s.Genes))
		ids := make([]geneid.CanonicalID, 0, len(s.Genes))
		for _, g := range s.Genes {
			id, ok := m.Resolved[g]
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}
		terms = append(terms, dom.Term{ID: s.Name, Description: s.Description, Genes: ids})
	}

	lib := dom.NewLibrary(tag, terms)
	logger.C(ctx).Debug().
		Str("tag", tag).
		Str("source", source).
		Int("terms", lib.Len()).
		Int("dropped_terms", len(sets)-lib.Len()).
		Int("unmapped_members", len(m.Unmapped)).
		Msg("library loaded")
	return lib, nil
}

// focus draws the named terms from every base in spec.From; the first base holding a term id wins
func (c *Catalog) focus(ctx context.Context, spec dom.LibrarySpec) (*dom.Library, error) {
	var terms []dom.Term
	taken := map[string]struct{}{}
	for _, from := range spec.From {
		base, err := c.build(ctx, from, from)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			logger.C(ctx).Warn().Str("tag", spec.Tag).Str("from", from).Msg("focus source missing")
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, t := range base.Focus(spec.Focus...).Terms() {
			if _, dup := taken[t.ID]; dup {
				continue
			}
			taken[t.ID] = struct{}{}
			terms = append(terms, t)
		}
	}
	return dom.NewLibrary(spec.Tag, terms), nil
}
