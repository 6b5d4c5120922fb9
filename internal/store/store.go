package store

import (
	"context"
	"errors"
)

// TaskListKey is the fixed key the task list is stored under.
const TaskListKey = "mytodos/tasks"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// KV is a durable key-value store holding string values.
type KV interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}
