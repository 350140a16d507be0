package module

import (
	"oraflow/internal/platform/config"
	"oraflow/internal/services/enrich/domain"
)

// FromConfig reads ORA_ENRICH_* settings over domain.Defaults
func FromConfig(cfg config.Conf) domain.Options {
	c := cfg.Prefix("ORA_ENRICH_")
	d := domain.Defaults()
	return domain.Options{
		PCutoff:    c.MayFloat64("P_CUTOFF", d.PCutoff),
		QCutoff:    c.MayFloat64("Q_CUTOFF", d.QCutoff),
		MinSetSize: c.MayInt("MIN_SET_SIZE", d.MinSetSize),
		MaxSetSize: c.MayInt("MAX_SET_SIZE", d.MaxSetSize),
		Universe:   c.MayInt("UNIVERSE", d.Universe),
		Workers:    c.MayInt("WORKERS", d.Workers),
	}
}
