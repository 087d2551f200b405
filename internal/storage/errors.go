package storage

import "errors"

// Common storage errors
var (
	// ErrKeyNotFound indicates that the key is absent from the key-value store
	ErrKeyNotFound = errors.New("key not found")

	// ErrCorruptCheckpoint indicates that a persisted cursor could not be decoded
	ErrCorruptCheckpoint = errors.New("corrupt checkpoint")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrUnsupportedDriver indicates an unknown storage driver name
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)
