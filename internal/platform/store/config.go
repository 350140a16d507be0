package store

import (
	"time"

	"oraflow/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	Lite LiteConfig
	CH   CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the defaults in openers.go
	ConnectRetries int
	PingTimeout    time.Duration
}

// LiteConfig configures the embedded sqlite database
type LiteConfig struct {
	Enabled bool
	Path    string
	LogSQL  bool
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string // reported in client info, i.e. "ora-enrich"
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*; a backend is enabled when its DBURL is set
// the sqlite bundle is enabled when litePath is non empty
func FromConfig(cfg config.Conf, role, litePath string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	ch := cfg.Prefix("SERVICE_CLICKHOUSE_")
	out := Config{
		AppName: role,
		PG: PGConfig{
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		Lite: LiteConfig{Enabled: litePath != "", Path: litePath},
		CH:   CHConfig{URL: ch.MayString("DBURL", ""), Role: role},
	}
	out.PG.Enabled = out.PG.URL != ""
	out.CH.Enabled = out.CH.URL != ""
	return out
}
