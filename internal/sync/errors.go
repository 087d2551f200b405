package sync

import "errors"

var (
	// ErrPersistence is returned when a page could not be written to the target
	// store. The checkpoint is not advanced past that page.
	ErrPersistence = errors.New("failed to persist page")

	// ErrSweepPanic wraps a panic recovered inside a sweep
	ErrSweepPanic = errors.New("sweep panicked")
)
