// @title         oraflow API
// @version       1.0
// @description   Over-representation analysis of gene lists against GO, KEGG, Reactome and MSigDB libraries

package main

import (
	"context"
	"os/signal"
	"syscall"

	"oraflow/internal/platform/config"
	"oraflow/internal/platform/logger"
	phttp "oraflow/internal/platform/net/http"
	"oraflow/internal/platform/store"

	"oraflow/internal/services/api"
)

const service = "ora-api"

// litePath opens the sqlite bundle only when a module is configured to read it
func litePath(root config.Conf) string {
	idm := root.Prefix("ORA_IDMAP_")
	if idm.MayString("DRIVER", "memory") == "sqlite" || root.Prefix("ORA_GENESETS_").MayString("DRIVER", "gmt") == "sqlite" {
		return idm.MayString("SQLITE_PATH", "oraflow.db")
	}
	return ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("ORA_API_")
	l := logger.Named(service)

	st, err := store.Open(ctx, store.FromConfig(root, service, litePath(root)), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// reads ORA_API_PORT / ORA_WRITE_TIMEOUT
	srv := phttp.NewServer(root.Prefix("ORA_"))

	err = api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Service:        service,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
