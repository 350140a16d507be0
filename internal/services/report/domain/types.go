// Package domain defines the run artifacts and the writer ports
package domain

import (
	"context"

	resdom "oraflow/internal/services/results/domain"
)

// Artifact names inside a run location
const (
	TableSuffix = "_enrichment.csv"
	PlotSuffix  = "_plot.json"
	SummaryName = "summary.json"
)

// TableColumns is the header row of every result table
var TableColumns = []string{"ID", "Description", "GeneRatio", "BgRatio", "pvalue", "p.adjust", "qvalue", "geneID", "symbols"}

// RunLocation says where a run's artifacts went
type RunLocation struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Files    []string `json:"files"`
	Archived int      `json:"archived,omitempty"`
}

// PlotPoint is one bar of a library's top terms
type PlotPoint struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	NegLog10Adj float64 `json:"neg_log10_p_adjust"`
	Count       int     `json:"count"`
	GeneRatio   string  `json:"gene_ratio"`
}

// Plot is the content of <TAG>_plot.json
type Plot struct {
	Library string      `json:"library"`
	Terms   []PlotPoint `json:"terms"`
}

// LibrarySummary is the per tag line of summary.json
type LibrarySummary struct {
	Tag   string `json:"tag"`
	Rows  int    `json:"rows"`
	Table string `json:"table"`
	Plot  string `json:"plot,omitempty"`
}

// Summary is the content of summary.json
type Summary struct {
	resdom.Meta
	Run       string           `json:"run"`
	Libraries []LibrarySummary `json:"libraries"`
}

// WriterPort persists an aggregate as a fresh run location
type WriterPort interface {
	Write(ctx context.Context, agg resdom.Aggregate) (RunLocation, error)
}

// ArchivePort copies result rows into a queryable store
type ArchivePort interface {
	Archive(ctx context.Context, agg resdom.Aggregate) (int, error)
}
