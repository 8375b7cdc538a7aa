package storage

import (
	"context"
	"io"
)

// Storage is the blob store behind uploaded files. Paths are relative and
// chosen by the caller.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
