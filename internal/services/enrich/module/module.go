// Package module wires the enrichment engine and its configured defaults
package module

import (
	"oraflow/internal/modkit"
	perr "oraflow/internal/platform/errors"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/services/enrich/domain"
	"oraflow/internal/services/enrich/service"
)

// Ports exposed by the enrich module
type Ports struct {
	Engine   domain.EnginePort
	Defaults domain.Options
}

// Module implements modkit.Module for enrich; it mounts no routes
type Module struct {
	ports Ports
}

// New validates the configured cutoffs up front so a bad env fails at startup
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	eng := service.New()
	// the universe is checked per run once the query size is known
	check := opts
	check.Universe = 0
	if err := eng.Validate(check, 0); err != nil {
		return nil, perr.WithOp(err, "config")
	}
	return &Module{ports: Ports{Engine: eng, Defaults: opts}}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "enrich" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
