// Package service runs an analysis: normalize, map, load libraries, enrich in parallel, aggregate, write
package service

import (
	"context"
	"maps"
	"slices"
	"time"

	"oraflow/internal/core/geneid"
	"oraflow/internal/core/normalize"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	enrichdom "oraflow/internal/services/enrich/domain"
	gsdom "oraflow/internal/services/genesets/domain"
	idmapdom "oraflow/internal/services/idmap/domain"
	reportdom "oraflow/internal/services/report/domain"
	resdom "oraflow/internal/services/results/domain"
	results "oraflow/internal/services/results/service"
	dom "oraflow/internal/services/runs/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of a run; Counter, Symbols and Writer are optional
type Deps struct {
	Mapper    idmapdom.MapperPort
	Counter   idmapdom.Counter
	Symbols   idmapdom.SymbolLookup
	Overrides idmapdom.Overrides
	Catalog   gsdom.CatalogPort
	Engine    enrichdom.EnginePort
	Writer    reportdom.WriterPort
	Defaults  enrichdom.Options
	Rewrites  []normalize.Rule
}

// Service implements domain.RunnerPort
type Service struct {
	d     Deps
	newID func() string
	now   func() time.Time
}

// New constructs a run service
func New(d Deps) *Service {
	if d.Mapper == nil || d.Catalog == nil || d.Engine == nil {
		panic("runs: mapper, catalog and engine are required")
	}
	return &Service{d: d, newID: uuid.NewString, now: time.Now}
}

// Run implements domain.RunnerPort
// nothing is mapped or loaded until the options pass, and no library is tested until the mapping is done
func (s *Service) Run(ctx context.Context, req dom.Request) (dom.Outcome, error) {
	runID := s.newID()
	ctx = logger.WithRun(ctx, runID, "")
	started := s.now().UTC()
	log := logger.C(ctx)

	opts := req.Options.Apply(s.d.Defaults)
	precheck := opts
	precheck.Universe = 0
	if err := s.d.Engine.Validate(precheck, 0); err != nil {
		return dom.Outcome{}, err
	}
	specs, err := s.pick(req.Libraries)
	if err != nil {
		return dom.Outcome{}, err
	}

	rw := normalize.NewRewriter(append(slices.Clone(s.d.Rewrites), req.Rewrites...)...)
	genes := normalize.Build(req.Genes, rw)
	if len(genes) == 0 {
		return dom.Outcome{}, perr.WithOp(perr.WithField(perr.Inputf("gene list is empty after normalization"), "genes"), "input")
	}

	mapping, err := s.d.Mapper.Map(ctx, genes, s.overrides(req.Overrides))
	if err != nil {
		return dom.Outcome{}, err
	}

	libs, err := s.load(ctx, specs, opts.Workers)
	if err != nil {
		return dom.Outcome{}, err
	}

	if opts.Universe == 0 {
		if opts.Universe, err = s.universe(ctx, libs, mapping.Mapped); err != nil {
			return dom.Outcome{}, err
		}
	}
	if err := s.d.Engine.Validate(opts, len(mapping.Mapped)); err != nil {
		return dom.Outcome{}, err
	}

	meta := resdom.Meta{
		RunID:       runID,
		StartedAt:   started,
		QuerySize:   len(mapping.Mapped),
		InputSize:   mapping.Total,
		Mapped:      len(mapping.Resolved),
		Unmapped:    len(mapping.Unmapped),
		UnmappedIDs: mapping.Unmapped,
		ByOverride:  mapping.ByOverride,
		Universe:    opts.Universe,
		PCutoff:     opts.PCutoff,
		QCutoff:     opts.QCutoff,
		MinSetSize:  opts.MinSetSize,
		MaxSetSize:  opts.MaxSetSize,
	}
	agg := results.New(meta, gsdom.Tags(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts.Workers, len(libs)))
	for _, lib := range libs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lctx := logger.WithRun(gctx, runID, lib.Tag())
			rows, err := s.d.Engine.Enrich(mapping.Mapped, lib, opts)
			if err != nil {
				return err
			}
			logger.C(lctx).Debug().Int("terms", lib.Len()).Int("rows", len(rows)).Msg("library enriched")
			return agg.Collect(lib.Tag(), rows)
		})
	}
	if err := g.Wait(); err != nil {
		return dom.Outcome{}, err
	}

	symbols, err := s.symbols(ctx, agg.GeneIDs(), mapping.InputLabels(genes))
	if err != nil {
		return dom.Outcome{}, err
	}
	out, err := agg.Aggregate(symbols)
	if err != nil {
		return dom.Outcome{}, err
	}
	outcome := dom.Outcome{Aggregate: out}

	if s.d.Writer != nil {
		loc, err := s.d.Writer.Write(ctx, out)
		if err != nil {
			return outcome, err
		}
		outcome.Location = &loc
	}

	log.Info().
		Int("query", meta.QuerySize).
		Int("unmapped", meta.Unmapped).
		Int("universe", meta.Universe).
		Interface("rows", out.Counts()).
		Dur("took", s.now().Sub(started)).
		Msg("run finished")
	return outcome, nil
}

// pick returns the configured specs, narrowed to tags when given, in configured order
func (s *Service) pick(tags []string) ([]gsdom.LibrarySpec, error) {
	all := s.d.Catalog.Specs()
	if len(tags) == 0 {
		return all, nil
	}
	var out []gsdom.LibrarySpec
	for _, t := range tags {
		if !slices.ContainsFunc(all, func(sp gsdom.LibrarySpec) bool { return sp.Tag == t }) {
			return nil, perr.WithOp(perr.WithField(perr.Inputf("library %s is not configured", t), "libraries"), "input")
		}
	}
	for _, sp := range all {
		if slices.Contains(tags, sp.Tag) {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (s *Service) overrides(req map[string]string) idmapdom.Overrides {
	out := maps.Clone(s.d.Overrides)
	if out == nil {
		out = idmapdom.Overrides{}
	}
	for k, v := range req {
		out[k] = geneid.CanonicalID(v)
	}
	return out
}

// load builds an independent library per spec, bounded like the enrichment fan-out
func (s *Service) load(ctx context.Context, specs []gsdom.LibrarySpec, n int) ([]*gsdom.Library, error) {
	libs := make([]*gsdom.Library, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(n, len(specs)))
	for i, sp := range specs {
		g.Go(func() (err error) {
			libs[i], err = s.d.Catalog.Load(logger.WithRun(gctx, logger.RunID(gctx), sp.Tag), sp)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return libs, nil
}

// universe is the annotated gene count when the provider can count, else the distinct library members plus the query
func (s *Service) universe(ctx context.Context, libs []*gsdom.Library, query []geneid.CanonicalID) (int, error) {
	if s.d.Counter != nil {
		n, err := s.d.Counter.CountGenes(ctx)
		if err != nil {
			return 0, perr.WithOp(err, "universe")
		}
		if n > 0 {
			return n, nil
		}
	}
	all := map[geneid.CanonicalID]struct{}{}
	for _, l := range libs {
		maps.Copy(all, l.Members())
	}
	for _, id := range query {
		all[id] = struct{}{}
	}
	return len(all), nil
}

// symbols prefers the provider's official symbol and falls back to the raw input that mapped to the id
func (s *Service) symbols(ctx context.Context, ids []geneid.CanonicalID, labels map[geneid.CanonicalID]string) (map[geneid.CanonicalID]string, error) {
	out := make(map[geneid.CanonicalID]string, len(ids))
	if s.d.Symbols != nil && len(ids) > 0 {
		got, err := s.d.Symbols.Symbols(ctx, ids)
		if err != nil {
			return nil, perr.WithOp(err, "symbols")
		}
		maps.Copy(out, got)
	}
	for _, id := range ids {
		if out[id] == "" {
			if l, ok := labels[id]; ok {
				out[id] = l
			}
		}
	}
	return out, nil
}

func workers(n, jobs int) int {
	if n <= 0 || n > jobs {
		n = jobs
	}
	return max(n, 1)
}
