package lock

import (
	"context"
	"fmt"
	"time"
)

// Section is a caller-supplied critical section, run only while the lock is
// held. Its outcome is a value or an explicit error; the wrappers never
// swallow the error and always release first.
type Section[T any] func(ctx context.Context) (T, error)

// Result is the tagged outcome of TryInLock. Acquired distinguishes "the lock
// was not obtained" from a section that legitimately produced a zero value.
type Result[T any] struct {
	Acquired bool
	Value    T
}

// TryInLock makes a single non-blocking acquisition attempt and, if it
// succeeds, runs section with a guaranteed release on every exit path. The
// returned error is always the section's own: acquisition trouble surfaces as
// Result.Acquired == false, never as an error.
func TryInLock[T any](ctx context.Context, c *Coordinator, key string, ttl time.Duration, section Section[T]) (Result[T], error) {
	if !c.TryLock(ctx, key, ttl) {
		return Result[T]{}, nil
	}
	defer c.Unlock(context.WithoutCancel(ctx), key)

	v, err := section(ctx)
	if err != nil {
		return Result[T]{Acquired: true}, err
	}
	return Result[T]{Acquired: true, Value: v}, nil
}

// DoInLock blocks up to wait for the lock, runs section with a guaranteed
// release, and propagates the section's error unchanged after releasing.
// Acquisition failures are wrapped so they stay distinguishable from section
// failures while remaining errors.Is-matchable.
func DoInLock[T any](ctx context.Context, c *Coordinator, key string, wait time.Duration, section Section[T]) (T, error) {
	var zero T
	if err := c.Lock(ctx, key, wait); err != nil {
		return zero, fmt.Errorf("kvlock: acquire %q: %w", key, err)
	}
	defer c.Unlock(context.WithoutCancel(ctx), key)

	return section(ctx)
}
