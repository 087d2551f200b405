package storage

import "context"

//go:generate moq -out kv_mock.go . KVStorage

// KVStorage defines a small durable key-value store.
// Used for sync checkpoints; values are opaque bytes.
type KVStorage interface {
	// Get returns the value stored under key
	// Returns ErrKeyNotFound if nothing is stored
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
