// Package blob stores document contents outside the record store.
package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob: not found")

// Store is a flat key/value store for document bytes.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error

	// Get returns a copy of the bytes stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error

	Close() error
}
