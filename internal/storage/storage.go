// Package storage defines the persistence interface and its implementations.
//
// Persistence is a pure serialization boundary: named JSON blobs keyed by
// string, with no knowledge of the shapes stored under each key.
package storage

import "context"

// Blobs is the interface for all persistence operations.
type Blobs interface {
	// Get returns the blob stored under key. The second result reports
	// whether the key exists at all, distinguishing absent from empty.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous blob.
	Put(ctx context.Context, key string, value []byte) error

	Close() error
}
