// Package modkit provides module wiring and core deps
package modkit

import (
	"oraflow/internal/modkit/repokit"
	"oraflow/internal/platform/blob"
	"oraflow/internal/platform/config"
	"oraflow/internal/platform/logger"
	"oraflow/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// every backend is optional; modules nil check what they need
type Deps struct {
	Log  *logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	Lite repokit.TxRunner
	CH   store.Clickhouse
	Blob blob.Store
}

// FromStore copies the opened backends of st into a Deps
func FromStore(cfg config.Conf, st *store.Store, b blob.Store) Deps {
	d := Deps{Log: logger.Get(), Cfg: cfg, Blob: b}
	if st != nil {
		d.PG, d.Lite, d.CH = st.PG, st.Lite, st.CH
	}
	return d
}

// SQL picks the relational backend for a driver name ("pg" or "sqlite"), nil otherwise
func (d Deps) SQL(driver string) repokit.TxRunner {
	switch driver {
	case "pg":
		return d.PG
	case "sqlite":
		return d.Lite
	}
	return nil
}
