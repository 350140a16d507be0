// Package module defines the minimal contract for a modkit module plus a port registry
package module

import (
	phttp "oraflow/internal/platform/net/http"
)

// Module defines the minimal contract used by modkit
// sibling of modkit.Module so a module can export its own ports type without an import knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// HasPorts reports whether m exposes a non nil port set
func HasPorts(m Module) bool { return m != nil && m.Ports() != nil }
