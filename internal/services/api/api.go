// Package api composes the modules and mounts the HTTP API
package api

import (
	"context"

	"oraflow/internal/modkit"
	"oraflow/internal/modkit/httpkit"
	"oraflow/internal/modkit/module"
	"oraflow/internal/modkit/swaggerkit"
	"oraflow/internal/platform/blob"
	"oraflow/internal/platform/config"
	"oraflow/internal/platform/logger"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/platform/store"

	metamod "oraflow/internal/services/api/meta/module"
	enrichmod "oraflow/internal/services/enrich/module"
	gsmod "oraflow/internal/services/genesets/module"
	idmapmod "oraflow/internal/services/idmap/module"
	reportmod "oraflow/internal/services/report/module"
	rundom "oraflow/internal/services/runs/domain"
	runsmod "oraflow/internal/services/runs/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Blob           blob.Store
	Logger         *logger.Logger
	Service        string
	EnableSwagger  bool
	EnableProfiler bool
}

// Stack is the composed module set; Runner is what both the API and the CLI drive
type Stack struct {
	Modules []module.Module
	Runner  rundom.RunnerPort
}

// Compose builds idmap, genesets, enrich, report and runs in dependency order
// and registers each module's ports under its name
func Compose(ctx context.Context, deps modkit.Deps) (*Stack, error) {
	idm, err := idmapmod.New(deps, idmapmod.FromConfig(deps.Cfg))
	if err != nil {
		return nil, err
	}
	idp := module.MustPortsOf[idmapmod.Ports](idm)

	gs, err := gsmod.New(deps, idp.Mapper, idp.Overrides, gsmod.FromConfig(deps.Cfg))
	if err != nil {
		return nil, err
	}
	en, err := enrichmod.New(deps)
	if err != nil {
		return nil, err
	}
	rep, err := reportmod.New(ctx, deps, reportmod.FromConfig(deps.Cfg))
	if err != nil {
		return nil, err
	}
	repPorts := module.MustPortsOf[reportmod.Ports](rep)

	runs, err := runsmod.New(deps, runsmod.Upstream{
		IDMap:    idp,
		GeneSets: module.MustPortsOf[gsmod.Ports](gs),
		Enrich:   module.MustPortsOf[enrichmod.Ports](en),
		Report:   &repPorts,
	})
	if err != nil {
		return nil, err
	}

	mods := []module.Module{idm, gs, en, rep, runs}
	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
	}
	return &Stack{Modules: mods, Runner: module.MustPortsOf[runsmod.Ports](runs).Runner}, nil
}

// Mount composes the modules and mounts them onto r under /api/v1
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	deps := modkit.FromStore(opt.Config, opt.Store, opt.Blob)
	if opt.Logger != nil {
		deps.Log = opt.Logger
	}
	stack, err := Compose(ctx, deps)
	if err != nil {
		return err
	}
	mods := append([]module.Module{metamod.New(deps, opt.Service)}, stack.Modules...)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config.Prefix("ORA_API_")), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}
