package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	lockerrors "github.com/mirkobrombin/go-kvlock/v1/errors"
	"github.com/mirkobrombin/go-kvlock/v1/metrics"
	"github.com/mirkobrombin/go-kvlock/v1/store"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-kvlock/v1/lock")

const (
	// DefaultTTL is the lifetime of a lock whose holder never releases it.
	DefaultTTL = 60 * time.Second
	// DefaultWait is the wait budget of a blocking acquisition.
	DefaultWait = 10 * time.Second
	// DefaultPollInterval is the pause between acquisition retries while waiting.
	DefaultPollInterval = 10 * time.Millisecond
)

// Coordinator acquires, releases and takes over locks on a Store. It holds no
// per-key state of its own; the store's key is the only shared resource.
type Coordinator struct {
	store store.Store
	log   *zap.Logger
	ttl   time.Duration
	wait  time.Duration
	poll  time.Duration
	now   func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for store trouble. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Coordinator) {
		c.ttl = d
	}
}

// WithDefaultWait overrides DefaultWait.
func WithDefaultWait(d time.Duration) Option {
	return func(c *Coordinator) {
		c.wait = d
	}
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.poll = d
	}
}

// New returns a Coordinator using the provided store.
func New(st store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store: st,
		log:   zap.NewNop(),
		ttl:   DefaultTTL,
		wait:  DefaultWait,
		poll:  DefaultPollInterval,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// formatExpiry renders an absolute expiry as the decimal epoch-millisecond
// string stored in a lock record. No other value shape is ever written.
func formatExpiry(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseExpiry(v string) (time.Time, error) {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// TryLock makes a single acquisition attempt and reports whether the lock was
// obtained. A ttl <= 0 means the coordinator default. TryLock is fail-closed:
// on any store failure it logs, issues a best-effort release and returns
// false, never claiming success on error.
func (c *Coordinator) TryLock(ctx context.Context, key string, ttl time.Duration) bool {
	ctx, span := tracer.Start(ctx, "Coordinator.TryLock", trace.WithAttributes(attribute.String("kvlock.key", key)))
	defer span.End()

	if ttl <= 0 {
		ttl = c.ttl
	}
	ok, err := c.acquire(ctx, key, formatExpiry(c.now().Add(ttl)), ttl)
	if err != nil {
		metrics.StoreErrorCounter.Inc()
		c.log.Warn("kvlock: acquisition failed, treating as not acquired",
			zap.String("key", key), zap.Error(err))
		c.Unlock(ctx, key)
		return false
	}
	return ok
}

// acquire runs one pass of the acquisition algorithm with a precomputed
// expiry value. It returns true only when this caller claimed the key, either
// by creating it or by taking over an expired record.
func (c *Coordinator) acquire(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	metrics.AttemptCounter.Inc()

	ok, err := c.store.SetIfAbsent(ctx, key, value)
	if err != nil {
		return false, err
	}
	if ok {
		// Cap the record's lifetime in the store. The claim stands even if
		// this fails: takeover is driven by the embedded timestamp, the
		// store-level TTL only reclaims memory.
		if err := c.store.SetExpiry(ctx, key, ttl); err != nil {
			c.log.Warn("kvlock: could not cap lock lifetime in store",
				zap.String("key", key), zap.Error(err))
		}
		metrics.AcquiredCounter.Inc()
		return true, nil
	}

	current, found, err := c.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		// Holder released between our two calls; the caller retries.
		return false, nil
	}
	expiresAt, perr := parseExpiry(current)
	if perr != nil {
		// Transient inconsistency, never written by this protocol.
		return false, nil
	}
	if !expiresAt.Before(c.now()) {
		return false, nil
	}

	// The holder's expiry passed without a release. GetAndSet is atomic but
	// blind, so compare its prior value with what we just read: equality means
	// nobody raced ahead of us, which approximates a compare-and-swap using
	// only a swap primitive.
	old, existed, err := c.store.GetAndSet(ctx, key, value)
	if err != nil {
		return false, err
	}
	if existed && old == current {
		metrics.AcquiredCounter.Inc()
		metrics.TakeoverCounter.Inc()
		return true, nil
	}
	return false, nil
}

// Lock blocks until the lock is obtained or the wait budget elapses. A wait
// <= 0 means the coordinator default. The record's expiry is computed once up
// front, so every retry within the window claims the same instant. Lock never
// returns quietly without the lock: exhausting the budget yields
// errors.ErrLockTimeout, store trouble yields the *errors.StoreError, and in
// both cases a best-effort release is issued first.
func (c *Coordinator) Lock(ctx context.Context, key string, wait time.Duration) error {
	ctx, span := tracer.Start(ctx, "Coordinator.Lock", trace.WithAttributes(attribute.String("kvlock.key", key)))
	defer span.End()

	if wait <= 0 {
		wait = c.wait
	}
	value := formatExpiry(c.now().Add(c.ttl))
	start := time.Now() // monotonic bound for the wait budget

	for {
		ok, err := c.acquire(ctx, key, value, c.ttl)
		if err != nil {
			metrics.StoreErrorCounter.Inc()
			c.log.Warn("kvlock: acquisition failed while waiting",
				zap.String("key", key), zap.Error(err))
			c.Unlock(ctx, key)
			return err
		}
		if ok {
			return nil
		}
		if time.Since(start) >= wait {
			break
		}
		select {
		case <-ctx.Done():
			c.Unlock(context.WithoutCancel(ctx), key)
			return ctx.Err()
		case <-time.After(c.poll):
		}
	}

	metrics.TimeoutCounter.Inc()
	c.Unlock(ctx, key)
	return fmt.Errorf("kvlock: key %q: %w", key, lockerrors.ErrLockTimeout)
}

// Unlock releases the lock by deleting its key. The delete is unconditional:
// the record carries no owner identity, so any caller's release removes the
// current record (see the package doc for the safety implications). Release
// is best-effort and never fails; store trouble is logged and swallowed
// because Unlock commonly runs in cleanup paths.
func (c *Coordinator) Unlock(ctx context.Context, key string) {
	ctx, span := tracer.Start(ctx, "Coordinator.Unlock", trace.WithAttributes(attribute.String("kvlock.key", key)))
	defer span.End()

	if err := c.store.Delete(ctx, key); err != nil {
		metrics.StoreErrorCounter.Inc()
		c.log.Warn("kvlock: release failed", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.ReleaseCounter.Inc()
}
