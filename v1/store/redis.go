package store

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	lockerrors "github.com/mirkobrombin/go-kvlock/v1/errors"
)

const defaultRedisOpTimeout = 5 * time.Second

// RedisStore implements Store using a Redis backend. SETNX and GETSET carry
// the atomicity the coordinator needs; EXPIRE caps a record's lifetime in the
// server so abandoned keys are eventually reclaimed.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTimeout sets the operation timeout for Redis calls.
func WithTimeout(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.timeout = d
	}
}

// NewRedisStore returns a new RedisStore using the provided Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, timeout: defaultRedisOpTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// SetIfAbsent implements Store.SetIfAbsent via SETNX. No TTL is attached here;
// the coordinator caps the key separately through SetExpiry.
func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	cctx, cancel := s.opCtx(ctx)
	defer cancel()
	ok, err := s.client.SetNX(cctx, key, value, 0).Result()
	if err != nil {
		return false, &lockerrors.StoreError{Op: "setifabsent", Err: err}
	}
	return ok, nil
}

// Get implements Store.Get.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	cctx, cancel := s.opCtx(ctx)
	defer cancel()
	v, err := s.client.Get(cctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, &lockerrors.StoreError{Op: "get", Err: err}
	}
	return v, true, nil
}

// GetAndSet implements Store.GetAndSet via GETSET.
func (s *RedisStore) GetAndSet(ctx context.Context, key, value string) (string, bool, error) {
	cctx, cancel := s.opCtx(ctx)
	defer cancel()
	prev, err := s.client.GetSet(cctx, key, value).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, &lockerrors.StoreError{Op: "getandset", Err: err}
	}
	return prev, true, nil
}

// Delete implements Store.Delete.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	cctx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.client.Del(cctx, key).Err(); err != nil {
		return &lockerrors.StoreError{Op: "delete", Err: err}
	}
	return nil
}

// SetExpiry implements Store.SetExpiry via EXPIRE.
func (s *RedisStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	cctx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.client.Expire(cctx, key, ttl).Err(); err != nil {
		return &lockerrors.StoreError{Op: "setexpiry", Err: err}
	}
	return nil
}
