package module

import "oraflow/internal/platform/config"

// Options holds configuration settings for the runs module
type Options struct {
	// RewritesFile is an optional from<TAB>to rule table applied before every run's own rules
	RewritesFile string
	// Write controls whether runs are persisted through the report writer
	Write bool
}

// FromConfig reads ORA_RUNS_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ORA_RUNS_")
	return Options{
		RewritesFile: c.MayString("REWRITES_FILE", ""),
		Write:        c.MayBool("WRITE", true),
	}
}
