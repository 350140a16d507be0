// Package blob stores run artifacts on the local filesystem, in memory or in an S3 bucket
package blob

import (
	"context"
	"errors"
	"io"
)

// Driver identifies a concrete blob backend
type Driver string

const (
	// DriverFilesystem writes under a local root directory
	DriverFilesystem Driver = "fs"
	// DriverS3 writes to an S3 or MinIO bucket
	DriverS3 Driver = "s3"
	// DriverMemory keeps objects in process, for tests and the API dry-run path
	DriverMemory Driver = "memory"
)

// Store is the artifact sink used by the report writer
// keys are slash separated and relative ("2026-10-19_1/GO_enrichment.csv")
type Store interface {
	// Claim atomically reserves prefix; ErrExists when someone already holds it
	Claim(ctx context.Context, prefix string) error
	// Put writes key, replacing any previous content
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Get opens key for reading; ErrNotExist when absent
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns the sorted keys under prefix
	List(ctx context.Context, prefix string) ([]string, error)
	// Location renders key as a path or URL a user can open
	Location(key string) string
	Driver() Driver
}

var (
	// ErrExists is returned by Claim when the prefix is taken
	ErrExists = errors.New("blob: already exists")
	// ErrNotExist is returned by Get for a missing key
	ErrNotExist = errors.New("blob: not found")
)
