// Package datasource abstracts where raw dataset bytes come from.
package datasource

import (
	"context"
	"errors"
	"io"
)

// Structural source failures. Concrete sources wrap their underlying
// errors with one of these so callers can classify without knowing the
// source kind.
var (
	// ErrNotFound means the named source does not exist.
	ErrNotFound = errors.New("datasource: not found")

	// ErrUnreadable means the source exists but could not be read
	// (permissions, corruption).
	ErrUnreadable = errors.New("datasource: unreadable")
)

// Source yields the raw bytes of one dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
