package domain

import (
	"context"

	"oraflow/internal/core/geneid"
)

// AnnotationProvider resolves raw identifiers; implementations are read only and safe for concurrent use
// ids absent from the returned map are unresolved
type AnnotationProvider interface {
	ResolveByAccession(ctx context.Context, accessions []string) (map[string]geneid.CanonicalID, error)
	ResolveBySymbol(ctx context.Context, symbols []string) (map[string]geneid.CanonicalID, error)
}

// Counter is the optional capability reporting the size of the annotated namespace
type Counter interface {
	CountGenes(ctx context.Context) (int, error)
}

// SymbolLookup is the optional capability mapping ids back to their official symbol
type SymbolLookup interface {
	Symbols(ctx context.Context, ids []geneid.CanonicalID) (map[geneid.CanonicalID]string, error)
}

// MapperPort maps raw identifiers to canonical ids
type MapperPort interface {
	Map(ctx context.Context, raw []string, overrides Overrides) (Mapping, error)
}
