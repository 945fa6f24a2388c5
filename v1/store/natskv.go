package store

import (
	"context"
	stdErrors "errors"
	"time"

	nats "github.com/nats-io/nats.go"

	lockerrors "github.com/mirkobrombin/go-kvlock/v1/errors"
)

// getAndSetAttempts bounds the revision-CAS loop emulating an atomic swap.
const getAndSetAttempts = 16

// NATSKVStore implements Store on top of a NATS JetStream key-value bucket.
// Create gives the set-if-absent semantics directly; the unconditional swap is
// emulated with a revision compare-and-set loop, which is at least as strong.
type NATSKVStore struct {
	kv nats.KeyValue
}

// NewNATSKVStore returns a new NATSKVStore using the provided bucket.
func NewNATSKVStore(kv nats.KeyValue) *NATSKVStore {
	return &NATSKVStore{kv: kv}
}

// SetIfAbsent implements Store.SetIfAbsent.
func (s *NATSKVStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	_, err := s.kv.Create(key, []byte(value))
	if err == nil {
		return true, nil
	}
	if stdErrors.Is(err, nats.ErrKeyExists) {
		return false, nil
	}
	return false, &lockerrors.StoreError{Op: "setifabsent", Err: err}
}

// Get implements Store.Get.
func (s *NATSKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.kv.Get(key)
	if stdErrors.Is(err, nats.ErrKeyNotFound) || stdErrors.Is(err, nats.ErrKeyDeleted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &lockerrors.StoreError{Op: "get", Err: err}
	}
	return string(entry.Value()), true, nil
}

// GetAndSet implements Store.GetAndSet. JetStream KV has no blind swap that
// reports the prior value, so the swap is built from Get plus a revision-bound
// Update; a concurrent writer makes the Update fail and the loop re-reads.
func (s *NATSKVStore) GetAndSet(ctx context.Context, key, value string) (string, bool, error) {
	var lastErr error
	for i := 0; i < getAndSetAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", false, &lockerrors.StoreError{Op: "getandset", Err: err}
		}
		entry, err := s.kv.Get(key)
		if stdErrors.Is(err, nats.ErrKeyNotFound) || stdErrors.Is(err, nats.ErrKeyDeleted) {
			if _, cerr := s.kv.Create(key, []byte(value)); cerr == nil {
				return "", false, nil
			} else if stdErrors.Is(cerr, nats.ErrKeyExists) {
				lastErr = cerr
				continue // lost the race, re-read
			} else {
				return "", false, &lockerrors.StoreError{Op: "getandset", Err: cerr}
			}
		}
		if err != nil {
			return "", false, &lockerrors.StoreError{Op: "getandset", Err: err}
		}
		prev := string(entry.Value())
		if _, err := s.kv.Update(key, []byte(value), entry.Revision()); err != nil {
			if stdErrors.Is(err, nats.ErrKeyExists) {
				lastErr = err
				continue // revision moved under us, re-read
			}
			return "", false, &lockerrors.StoreError{Op: "getandset", Err: err}
		}
		return prev, true, nil
	}
	return "", false, &lockerrors.StoreError{Op: "getandset", Err: lastErr}
}

// Delete implements Store.Delete.
func (s *NATSKVStore) Delete(ctx context.Context, key string) error {
	err := s.kv.Delete(key)
	if err == nil || stdErrors.Is(err, nats.ErrKeyNotFound) || stdErrors.Is(err, nats.ErrKeyDeleted) {
		return nil
	}
	return &lockerrors.StoreError{Op: "delete", Err: err}
}

// SetExpiry implements Store.SetExpiry. JetStream KV in this server line only
// supports bucket-level TTLs, so the per-key cap is a no-op here. The lock
// protocol stays correct: the expiry embedded in the value is what drives
// takeover, the store-level TTL is reclamation only.
func (s *NATSKVStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}
