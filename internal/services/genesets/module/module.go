// Package module wires the gene-set catalog to its configured source
package module

import (
	"oraflow/internal/modkit"
	"oraflow/internal/modkit/repokit"
	perr "oraflow/internal/platform/errors"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/services/genesets/domain"
	gshttp "oraflow/internal/services/genesets/http"
	"oraflow/internal/services/genesets/repo"
	"oraflow/internal/services/genesets/service"
	idmapdom "oraflow/internal/services/idmap/domain"
)

// Ports exposed by the genesets module
type Ports struct {
	Catalog domain.CatalogPort
	Source  domain.Source
}

// Module implements modkit.Module for genesets; it mounts GET /libraries
type Module struct {
	b     modkit.Built
	opts  Options
	ports Ports
}

// New builds the source named by opts.Driver and a catalog mapping members through mapper
func New(deps modkit.Deps, mapper idmapdom.MapperPort, overrides idmapdom.Overrides, opts Options, mopts ...modkit.Option) (*Module, error) {
	var src domain.Source
	switch opts.Driver {
	case "pg", "sqlite":
		q := deps.SQL(opts.Driver)
		if q == nil {
			return nil, perr.WithField(perr.Configf("genesets driver %s needs an open %s store", opts.Driver, opts.Driver), "ORA_GENESETS_DRIVER")
		}
		src = repokit.MustBind(repo.New(repokit.Dialect(opts.Driver)), repokit.Queryer(q))
	default:
		if opts.Dir == "" {
			return nil, perr.WithField(perr.Configf("gmt driver needs a directory"), "ORA_GENESETS_DIR")
		}
		src = repo.NewDir(opts.Dir)
	}
	if len(opts.Libraries) == 0 && len(opts.FocusA) == 0 && len(opts.FocusB) == 0 {
		return nil, perr.WithField(perr.Configf("no gene set libraries configured"), "ORA_GENESETS_LIBRARIES")
	}
	return NewWithSource(opts, src, mapper, overrides, mopts...), nil
}

// NewWithSource wires an already built source
func NewWithSource(opts Options, src domain.Source, mapper idmapdom.MapperPort, overrides idmapdom.Overrides, mopts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("genesets"), modkit.WithPrefix("/libraries")}, mopts...)...)
	cat := service.New(src, mapper, overrides, opts.Specs())
	return &Module{b: b, opts: opts, ports: Ports{Catalog: cat, Source: src}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { gshttp.Register(rr, m.ports.Catalog, m.ports.Source) })
}
