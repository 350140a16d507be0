// Package module wires the report writer to its blob store and optional ClickHouse archive
package module

import (
	"context"

	"oraflow/internal/modkit"
	"oraflow/internal/platform/blob"
	perr "oraflow/internal/platform/errors"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/services/report/domain"
	"oraflow/internal/services/report/repo"
	"oraflow/internal/services/report/service"
)

// Ports exposed by the report module
type Ports struct {
	Writer domain.WriterPort
	Blob   blob.Store
}

// Module implements modkit.Module for report; it mounts no routes
type Module struct {
	opts  Options
	ports Ports
}

// New uses deps.Blob when set, otherwise opens the configured driver
func New(ctx context.Context, deps modkit.Deps, opts Options) (*Module, error) {
	b := deps.Blob
	if b == nil {
		var err error
		if b, err = blob.Open(ctx, opts.Blob); err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfiguration, "open report store"), "ORA_REPORT_DRIVER")
		}
	}

	var archive domain.ArchivePort
	if opts.ArchiveCH {
		if deps.CH == nil {
			return nil, perr.WithField(perr.Configf("result archive needs clickhouse"), "ORA_REPORT_ARCHIVE_CH")
		}
		ch := repo.NewCH(deps.CH)
		if err := ch.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		archive = ch
	}

	return &Module{
		opts:  opts,
		ports: Ports{Writer: service.New(b, archive, service.Config{PlotTop: opts.PlotTop}), Blob: b},
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "report" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
