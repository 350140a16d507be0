package modkit

import "oraflow/internal/modkit/module"

// Module is the surface every service module implements: routes, ports and a registry name
type Module = module.Module
