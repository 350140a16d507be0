package domain

import (
	"context"

	"oraflow/internal/core/gmt"
)

// Source yields raw gene sets by library name; members are still raw tokens
type Source interface {
	Sets(ctx context.Context, library string) ([]gmt.Set, error)
	Names(ctx context.Context) ([]string, error)
}

// CatalogPort assembles a fresh library per call
type CatalogPort interface {
	Load(ctx context.Context, spec LibrarySpec) (*Library, error)
	Specs() []LibrarySpec
}
