// Package module wires the run orchestrator over the idmap, genesets, enrich and report ports
package module

import (
	"os"

	"oraflow/internal/core/normalize"
	"oraflow/internal/modkit"
	perr "oraflow/internal/platform/errors"
	phttp "oraflow/internal/platform/net/http"
	enrichmod "oraflow/internal/services/enrich/module"
	gsmod "oraflow/internal/services/genesets/module"
	idmapmod "oraflow/internal/services/idmap/module"
	reportmod "oraflow/internal/services/report/module"
	"oraflow/internal/services/runs/domain"
	runshttp "oraflow/internal/services/runs/http"
	"oraflow/internal/services/runs/service"
)

// Ports exposed by the runs module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module for runs
type Module struct {
	b     modkit.Built
	opts  Options
	ports Ports
}

// Upstream are the ports a run draws on; Report may be nil
type Upstream struct {
	IDMap    idmapmod.Ports
	GeneSets gsmod.Ports
	Enrich   enrichmod.Ports
	Report   *reportmod.Ports
}

// Wire turns upstream ports into orchestrator dependencies
func (u Upstream) Wire(opts Options) service.Deps {
	d := service.Deps{
		Mapper:    u.IDMap.Mapper,
		Counter:   u.IDMap.Counter,
		Symbols:   u.IDMap.Symbols,
		Overrides: u.IDMap.Overrides,
		Catalog:   u.GeneSets.Catalog,
		Engine:    u.Enrich.Engine,
		Defaults:  u.Enrich.Defaults,
	}
	if opts.Write && u.Report != nil {
		d.Writer = u.Report.Writer
	}
	return d
}

// New reads ORA_RUNS_* and builds the orchestrator
func New(deps modkit.Deps, up Upstream, mopts ...modkit.Option) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	d := up.Wire(opts)
	if opts.RewritesFile != "" {
		rules, err := readRules(opts.RewritesFile)
		if err != nil {
			return nil, err
		}
		d.Rewrites = rules
	}
	if d.Mapper == nil || d.Catalog == nil || d.Engine == nil {
		return nil, perr.Configf("runs need idmap, genesets and enrich ports")
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("runs"), modkit.WithPrefix("/runs")}, mopts...)...)
	return &Module{b: b, opts: opts, ports: Ports{Runner: service.New(d)}}, nil
}

func readRules(path string) ([]normalize.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInput, "open rewrites"), "ORA_RUNS_REWRITES_FILE")
	}
	defer f.Close()
	rules, err := normalize.ReadRules(f)
	if err != nil {
		return nil, perr.WithField(err, "ORA_RUNS_REWRITES_FILE")
	}
	return rules, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { runshttp.Register(rr, m.ports.Runner) })
}
