// Package service collects per library results and joins gene symbols
package service

import (
	"slices"
	"sync"

	"oraflow/internal/core/geneid"
	perr "oraflow/internal/platform/errors"
	enrichdom "oraflow/internal/services/enrich/domain"
	dom "oraflow/internal/services/results/domain"
)

// Aggregator gathers rows from concurrent library invocations; safe for concurrent Collect
type Aggregator struct {
	mu    sync.Mutex
	meta  dom.Meta
	tags  []string
	rows  map[string][]enrichdom.Result
	taken map[string]bool
}

// New expects exactly one Collect per tag; Aggregate reports libraries in tag order
func New(meta dom.Meta, tags []string) *Aggregator {
	return &Aggregator{
		meta:  meta,
		tags:  slices.Clone(tags),
		rows:  make(map[string][]enrichdom.Result, len(tags)),
		taken: make(map[string]bool, len(tags)),
	}
}

// Collect records the rows of one tag
func (a *Aggregator) Collect(tag string, rows []enrichdom.Result) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !slices.Contains(a.tags, tag) {
		return perr.WithField(perr.Internalf("unexpected library %s", tag), tag)
	}
	if a.taken[tag] {
		return perr.WithField(perr.Conflictf("library %s collected twice", tag), tag)
	}
	a.taken[tag] = true
	a.rows[tag] = rows
	return nil
}

// GeneIDs lists every distinct gene across the collected rows, sorted
func (a *Aggregator) GeneIDs() []geneid.CanonicalID {
	a.mu.Lock()
	defer a.mu.Unlock()
	seen := map[geneid.CanonicalID]struct{}{}
	var out []geneid.CanonicalID
	for _, rows := range a.rows {
		for _, r := range rows {
			for _, g := range r.Genes {
				if _, ok := seen[g]; !ok {
					seen[g] = struct{}{}
					out = append(out, g)
				}
			}
		}
	}
	return geneid.Sort(out)
}

// Aggregate joins symbols and returns the outcome; a tag never collected is an internal error
func (a *Aggregator) Aggregate(idToSymbol map[geneid.CanonicalID]string) (dom.Aggregate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := dom.Aggregate{Meta: a.meta, Libraries: make([]dom.Library, 0, len(a.tags))}
	for _, tag := range a.tags {
		if !a.taken[tag] {
			return dom.Aggregate{}, perr.WithField(perr.Internalf("library %s was never collected", tag), tag)
		}
		out.Libraries = append(out.Libraries, dom.Library{Tag: tag, Rows: AttachSymbols(a.rows[tag], idToSymbol)})
	}
	return out, nil
}

// AttachSymbols is a pure join: new rows, inputs untouched, a missing symbol is blank
func AttachSymbols(results []enrichdom.Result, idToSymbol map[geneid.CanonicalID]string) []dom.Annotated {
	out := make([]dom.Annotated, len(results))
	for i, r := range results {
		r.Genes = slices.Clone(r.Genes)
		syms := make([]string, len(r.Genes))
		for j, g := range r.Genes {
			syms[j] = idToSymbol[g]
		}
		out[i] = dom.Annotated{Result: r, Symbols: syms}
	}
	return out
}
