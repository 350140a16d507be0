// Package domain defines run requests and outcomes
package domain

import (
	"context"

	"oraflow/internal/core/normalize"
	enrichdom "oraflow/internal/services/enrich/domain"
	reportdom "oraflow/internal/services/report/domain"
	resdom "oraflow/internal/services/results/domain"
)

// OptionsPatch overrides configured enrichment options field by field
type OptionsPatch struct {
	PCutoff    *float64 `json:"p_cutoff,omitempty" validate:"omitempty,gt=0,lte=1"`
	QCutoff    *float64 `json:"q_cutoff,omitempty" validate:"omitempty,gt=0,lte=1"`
	MinSetSize *int     `json:"min_set_size,omitempty" validate:"omitempty,gte=0"`
	MaxSetSize *int     `json:"max_set_size,omitempty" validate:"omitempty,gte=0"`
	Universe   *int     `json:"universe,omitempty" validate:"omitempty,gte=0"`
}

// Apply returns base with every set field replaced
func (p *OptionsPatch) Apply(base enrichdom.Options) enrichdom.Options {
	if p == nil {
		return base
	}
	if p.PCutoff != nil {
		base.PCutoff = *p.PCutoff
	}
	if p.QCutoff != nil {
		base.QCutoff = *p.QCutoff
	}
	if p.MinSetSize != nil {
		base.MinSetSize = *p.MinSetSize
	}
	if p.MaxSetSize != nil {
		base.MaxSetSize = *p.MaxSetSize
	}
	if p.Universe != nil {
		base.Universe = *p.Universe
	}
	return base
}

// Request is one analysis
type Request struct {
	// Genes are raw identifiers, one per entry
	Genes []string `json:"genes" validate:"required,min=1,dive,max=256"`
	// Overrides add to the configured override table; request entries win
	Overrides map[string]string `json:"overrides,omitempty"`
	// Rewrites run after the configured rewrite rules
	Rewrites []normalize.Rule `json:"rewrites,omitempty" validate:"dive"`
	// Libraries narrows the run to these tags; empty runs every configured tag
	Libraries []string      `json:"libraries,omitempty"`
	Options   *OptionsPatch `json:"options,omitempty"`
}

// Outcome is the aggregate plus where it was written, when a writer is configured
type Outcome struct {
	resdom.Aggregate
	Location *reportdom.RunLocation `json:"location,omitempty"`
}

// RunnerPort executes one analysis end to end
type RunnerPort interface {
	Run(ctx context.Context, req Request) (Outcome, error)
}
