package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get and Mtime when a key has no entry.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persisted key-value abstraction behind the daily cache and the
// monthly archive. Keys are flat file-name style strings without separators;
// values are whole JSON documents, always overwritten as a unit. Mtime is the
// last-write timestamp and doubles as the cache-validity signal.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Mtime(ctx context.Context, key string) (time.Time, error)
	Delete(ctx context.Context, key string) error

	// Keys lists every key in the store, in no particular order. Used for
	// opportunistic garbage collection of expired cache entries.
	Keys(ctx context.Context) ([]string, error)
}
