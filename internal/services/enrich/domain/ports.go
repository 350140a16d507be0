package domain

import (
	"oraflow/internal/core/geneid"
	gsdom "oraflow/internal/services/genesets/domain"
)

// EnginePort tests one library against one query
type EnginePort interface {
	Enrich(query []geneid.CanonicalID, lib *gsdom.Library, opts Options) ([]Result, error)
	Validate(opts Options, querySize int) error
}
