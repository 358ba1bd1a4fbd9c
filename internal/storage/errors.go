package storage

import (
	"errors"
	"fmt"
)

// ErrAlreadyInitialized is returned by Init when a store already exists at the path.
var ErrAlreadyInitialized = errors.New("storage already initialized")

// ReadError reports durable content that could not be decoded. Callers
// recover by starting from an empty collection.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read habits from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Hint() string {
	return "run 'habitlit backup list' to find a snapshot to restore"
}

// WriteError reports a failed snapshot write. The in-memory collection stays
// authoritative.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to save habits to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
