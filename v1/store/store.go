package store

import (
	"context"
	"time"
)

// Store is the minimal contract a key-value backend must fulfil to coordinate
// locks. SetIfAbsent and GetAndSet must be atomic with respect to concurrent
// callers on the same key; they are the only mutual-exclusion primitives the
// coordinator relies on.
type Store interface {
	// SetIfAbsent writes value under key only if the key does not exist.
	// It returns true iff the key was absent and now holds value.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	// Get returns the current value for key. The boolean return indicates
	// whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// GetAndSet unconditionally overwrites key with value and returns the
	// prior value. The boolean return indicates whether a prior value existed.
	GetAndSet(ctx context.Context, key, value string) (string, bool, error)
	// Delete removes key if present and is a no-op otherwise.
	Delete(ctx context.Context, key string) error
	// SetExpiry sets a store-level time-to-live on an existing key. It is
	// best-effort: backends without per-key TTLs may ignore it.
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*NATSKVStore)(nil)
)
