package module

import (
	"oraflow/internal/platform/config"
	"oraflow/internal/services/genesets/domain"
)

// Options holds configuration settings for the gene-set catalog
type Options struct {
	// Driver is gmt, pg or sqlite
	Driver string
	// Dir holds <TAG>.gmt files for the gmt driver
	Dir string
	// Libraries are the base library tags of a run
	Libraries []string
	// FocusA and FocusB name the terms of the two focused panels; ';' separated since descriptions carry commas
	FocusA []string
	FocusB []string
}

// FromConfig reads ORA_GENESETS_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ORA_GENESETS_")
	return Options{
		Driver:    c.MayEnum("DRIVER", "gmt", "gmt", "pg", "sqlite"),
		Dir:       c.MayString("DIR", "genesets"),
		Libraries: c.MayCSV("LIBRARIES", domain.DefaultBase),
		FocusA:    c.MaySplit("FOCUS_A_TERMS", ";", nil),
		FocusB:    c.MaySplit("FOCUS_B_TERMS", ";", nil),
	}
}

// Specs expands the options into the run's library specs
func (o Options) Specs() []domain.LibrarySpec {
	return domain.DefaultSpecs(o.Libraries, o.FocusA, o.FocusB)
}
