// Package storage stores uploaded project files on a named disk.
//
// Two drivers are available:
//   - "local": a directory on the local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
// Boot once at startup, then use the default disk:
//
//	if err := storage.Connect(cfg.Storage); err != nil { ... }
//	err := storage.Default().Put(ctx, "projects/7/a1b2.pdf", r, "application/pdf")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a path does not exist on a disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns a reader for path. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
