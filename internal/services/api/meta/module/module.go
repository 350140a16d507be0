// Package module wires meta endpoints into the API
package module

import (
	"time"

	"oraflow/internal/modkit"
	phttp "oraflow/internal/platform/net/http"
	str "oraflow/internal/platform/strings"

	metahttp "oraflow/internal/services/api/meta/http"
)

// Module implements modkit.Module for meta
type Module struct {
	b       modkit.Built
	service string
	deps    modkit.Deps

	startedAt time.Time
}

// New constructs a meta module reporting on the backends in deps
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{b: b, service: str.MustString(service, "service"), deps: deps, startedAt: time.Now()}
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	backends := map[string]any{}
	// a nil interface stored in the map must stay nil, not a typed nil
	if m.deps.PG != nil {
		backends["pg"] = m.deps.PG
	}
	if m.deps.Lite != nil {
		backends["sqlite"] = m.deps.Lite
	}
	if m.deps.CH != nil {
		backends["ch"] = m.deps.CH
	}
	m.b.Mount(r, func(rr phttp.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Backends:    backends,
		})
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return nil }
