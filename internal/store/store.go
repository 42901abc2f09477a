package store

//go:generate go run go.uber.org/mock/mockgen -destination store_mock.gen.go -package store . Store

import (
	"context"
	"fmt"
)

// Store persists the last notified commit per key. The poller depends only on this interface.
type Store interface {
	// ReadPointer returns the stored sha for key; ok is false when none exists.
	ReadPointer(ctx context.Context, key string) (sha string, ok bool, err error)
	// WritePointer overwrites the sha for key, creating the slot if absent.
	WritePointer(ctx context.Context, key, sha string) error
}

// DefaultKey is the slot used when a single branch is tracked.
const DefaultKey = "last_commit"

// IOError is a failure reading or writing persisted state.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
