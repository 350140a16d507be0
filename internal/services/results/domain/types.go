// Package domain defines the aggregate a run hands to the report writer
package domain

import (
	"time"

	enrichdom "oraflow/internal/services/enrich/domain"
)

// Annotated is a result row with the symbol of each matched gene, same order as Genes
type Annotated struct {
	enrichdom.Result
	Symbols []string `json:"symbols"`
}

// Meta describes the run every library shares
type Meta struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	QuerySize   int       `json:"query_size"`
	InputSize   int       `json:"input_size"`
	Mapped      int       `json:"mapped"`
	Unmapped    int       `json:"unmapped"`
	UnmappedIDs []string  `json:"unmapped_ids"`
	ByOverride  []string  `json:"by_override,omitempty"`
	Universe    int       `json:"universe"`
	PCutoff     float64   `json:"p_cutoff"`
	QCutoff     float64   `json:"q_cutoff"`
	MinSetSize  int       `json:"min_set_size"`
	MaxSetSize  int       `json:"max_set_size"`
}

// Library is the outcome for one tag
type Library struct {
	Tag  string      `json:"tag"`
	Rows []Annotated `json:"rows"`
}

// Aggregate is the complete, read only outcome of one run
type Aggregate struct {
	Meta      Meta      `json:"meta"`
	Libraries []Library `json:"libraries"`
}

// Counts returns the row count per tag
func (a Aggregate) Counts() map[string]int {
	out := make(map[string]int, len(a.Libraries))
	for _, l := range a.Libraries {
		out[l.Tag] = len(l.Rows)
	}
	return out
}
