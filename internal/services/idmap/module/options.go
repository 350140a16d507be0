package module

import "oraflow/internal/platform/config"

// Options holds configuration settings for the idmap module
type Options struct {
	// Driver is memory, pg or sqlite
	Driver string
	// AnnotationFile is the gene table loaded by the memory driver
	AnnotationFile string
	// SQLitePath is the bundle opened when Driver is sqlite
	SQLitePath string
	// OverridesFile is an optional raw<TAB>id table applied to every run
	OverridesFile string
	// Organism scopes SQL lookups
	Organism string
}

// FromConfig reads ORA_IDMAP_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ORA_IDMAP_")
	return Options{
		Driver:         c.MayEnum("DRIVER", "memory", "memory", "pg", "sqlite"),
		AnnotationFile: c.MayString("ANNOTATION_FILE", ""),
		SQLitePath:     c.MayString("SQLITE_PATH", "oraflow.db"),
		OverridesFile:  c.MayString("OVERRIDES_FILE", ""),
		Organism:       c.MayString("ORGANISM", "mmu"),
	}
}
