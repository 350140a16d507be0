// Package module wires the identifier mapper to its configured annotation provider
package module

import (
	"os"

	"oraflow/internal/modkit"
	"oraflow/internal/modkit/repokit"
	perr "oraflow/internal/platform/errors"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/services/idmap/domain"
	"oraflow/internal/services/idmap/repo"
	"oraflow/internal/services/idmap/service"
)

// Ports exposed by the idmap module
type Ports struct {
	Mapper   domain.MapperPort
	Provider domain.AnnotationProvider
	// Counter and Symbols are nil when the provider lacks the capability
	Counter   domain.Counter
	Symbols   domain.SymbolLookup
	Overrides domain.Overrides
}

// Module implements modkit.Module for idmap; it mounts no routes
type Module struct {
	opts  Options
	ports Ports
}

// New builds the provider named by opts.Driver
// memory loads opts.AnnotationFile, pg and sqlite bind to the matching store in deps
func New(deps modkit.Deps, opts Options) (*Module, error) {
	var provider domain.AnnotationProvider
	switch opts.Driver {
	case "pg", "sqlite":
		q := deps.SQL(opts.Driver)
		if q == nil {
			return nil, perr.WithField(perr.Configf("idmap driver %s needs an open %s store", opts.Driver, opts.Driver), "ORA_IDMAP_DRIVER")
		}
		provider = repokit.MustBind(repo.New(repokit.Dialect(opts.Driver), opts.Organism), repokit.Queryer(q))
	default:
		genes, err := loadGenes(opts.AnnotationFile)
		if err != nil {
			return nil, err
		}
		provider = repo.NewMemory(genes)
	}

	overrides := domain.Overrides{}
	if opts.OverridesFile != "" {
		f, err := os.Open(opts.OverridesFile)
		if err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInput, "open overrides"), "ORA_IDMAP_OVERRIDES_FILE")
		}
		defer f.Close()
		if overrides, err = service.ReadOverrides(f); err != nil {
			return nil, err
		}
	}

	return NewWithProvider(opts, provider, overrides), nil
}

// NewWithProvider wires an already built provider, used by tests and by the import tool
func NewWithProvider(opts Options, provider domain.AnnotationProvider, overrides domain.Overrides) *Module {
	m := &Module{opts: opts}
	m.ports = Ports{
		Mapper:    service.New(provider),
		Provider:  provider,
		Overrides: overrides,
	}
	if c, ok := provider.(domain.Counter); ok {
		m.ports.Counter = c
	}
	if s, ok := provider.(domain.SymbolLookup); ok {
		m.ports.Symbols = s
	}
	return m
}

func loadGenes(path string) ([]domain.Gene, error) {
	if path == "" {
		return nil, perr.WithField(perr.Configf("memory annotation driver needs an annotation file"), "ORA_IDMAP_ANNOTATION_FILE")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInput, "open annotation file"), "ORA_IDMAP_ANNOTATION_FILE")
	}
	defer f.Close()
	return repo.ReadGenes(f)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "idmap" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
