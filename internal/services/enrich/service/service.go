// Package service implements the over-representation engine
package service

import (
	"cmp"
	"slices"

	"oraflow/internal/core/geneid"
	"oraflow/internal/core/stats"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/net/http/bind"
	dom "oraflow/internal/services/enrich/domain"
	gsdom "oraflow/internal/services/genesets/domain"
)

// Engine implements domain.EnginePort; it holds no state, so one value serves concurrent runs
type Engine struct{}

// New constructs an Engine
func New() *Engine { return &Engine{} }

// Validate rejects bad options before any computation
func (e *Engine) Validate(opts dom.Options, querySize int) error {
	if err := bind.Struct(opts, perr.ErrorCodeConfiguration); err != nil {
		return perr.WithOp(err, "enrich")
	}
	if opts.MaxSetSize > 0 && opts.MinSetSize > opts.MaxSetSize {
		return perr.WithOp(perr.WithField(
			perr.Configf("min_set_size %d exceeds max_set_size %d", opts.MinSetSize, opts.MaxSetSize), "min_set_size"), "enrich")
	}
	if opts.Universe < querySize {
		return perr.WithOp(perr.WithField(
			perr.Configf("universe %d is smaller than the query (%d genes)", opts.Universe, querySize), "universe"), "enrich")
	}
	return nil
}

type tested struct {
	term  gsdom.Term
	genes []geneid.CanonicalID
}

// Enrich tests every term of lib against query and returns the significant rows
// rows are sorted by p.adjust, then p, then term id; an empty overlap gives an empty, non nil slice
func (e *Engine) Enrich(query []geneid.CanonicalID, lib *gsdom.Library, opts dom.Options) ([]dom.Result, error) {
	q := dedup(query)
	if err := e.Validate(opts, len(q)); err != nil {
		if lib != nil {
			err = perr.WithField(err, lib.Tag())
		}
		return nil, err
	}
	out := []dom.Result{}
	if len(q) == 0 || lib == nil {
		return out, nil
	}
	inQuery := make(map[geneid.CanonicalID]int, len(q))
	for i, id := range q {
		inQuery[id] = i
	}

	var batch []tested
	for _, t := range lib.Terms() {
		size := t.Size()
		if size > opts.Universe {
			continue
		}
		if (opts.MinSetSize > 0 && size < opts.MinSetSize) || (opts.MaxSetSize > 0 && size > opts.MaxSetSize) {
			continue
		}
		hits := make([]geneid.CanonicalID, 0, min(size, len(q)))
		for _, g := range t.Genes {
			if _, ok := inQuery[g]; ok {
				hits = append(hits, g)
			}
		}
		if len(hits) == 0 {
			continue
		}
		slices.SortFunc(hits, func(a, b geneid.CanonicalID) int { return inQuery[a] - inQuery[b] })
		batch = append(batch, tested{term: t, genes: hits})
	}
	if len(batch) == 0 {
		return out, nil
	}

	p := make([]float64, len(batch))
	for i, b := range batch {
		p[i] = stats.HypergeomUpper(len(b.genes), opts.Universe, b.term.Size(), len(q))
	}
	padj := stats.BH(p)
	qv := stats.QValue(p)

	for i, b := range batch {
		if !(p[i] <= opts.PCutoff && padj[i] <= opts.QCutoff && qv[i] <= opts.QCutoff) {
			continue
		}
		out = append(out, dom.Result{
			TermID:      b.term.ID,
			Description: b.term.Description,
			Count:       len(b.genes),
			QuerySize:   len(q),
			TermSize:    b.term.Size(),
			Universe:    opts.Universe,
			P:           p[i],
			PAdjust:     padj[i],
			Q:           qv[i],
			Genes:       b.genes,
		})
	}
	slices.SortFunc(out, func(a, b dom.Result) int {
		return cmp.Or(cmp.Compare(a.PAdjust, b.PAdjust), cmp.Compare(a.P, b.P), cmp.Compare(a.TermID, b.TermID))
	})
	return out, nil
}

func dedup(ids []geneid.CanonicalID) []geneid.CanonicalID {
	seen := make(map[geneid.CanonicalID]struct{}, len(ids))
	out := make([]geneid.CanonicalID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
