// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"salesetl/internal/datasource"
)

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded, Open
//     returns the context error without touching the filesystem.
//   - Filesystem errors are classified as datasource.ErrNotFound or
//     datasource.ErrUnreadable while keeping the underlying error in the
//     chain (errors.Is(err, os.ErrNotExist) still holds).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		kind := datasource.ErrUnreadable
		if errors.Is(err, os.ErrNotExist) {
			kind = datasource.ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w: %w", l.path, kind, err)
	}
	return f, nil
}
