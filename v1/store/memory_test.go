package store

import (
	"context"
	"testing"
	"time"
)

func TestInMemorySetIfAbsent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	ok, err := s.SetIfAbsent(ctx, "k", "a")
	if err != nil || !ok {
		t.Fatalf("setifabsent: %v ok %v", err, ok)
	}
	if ok, err := s.SetIfAbsent(ctx, "k", "b"); err != nil || ok {
		t.Fatalf("expected existing key to win, ok %v err %v", ok, err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "a" {
		t.Fatalf("get: %v found %v value %q", err, found, v)
	}
}

func TestInMemoryGetAndSet(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	prev, existed, err := s.GetAndSet(ctx, "k", "a")
	if err != nil || existed || prev != "" {
		t.Fatalf("swap on absent key: %v existed %v prev %q", err, existed, prev)
	}
	prev, existed, err = s.GetAndSet(ctx, "k", "b")
	if err != nil || !existed || prev != "a" {
		t.Fatalf("swap on present key: %v existed %v prev %q", err, existed, prev)
	}
	v, _, _ := s.Get(ctx, "k")
	if v != "b" {
		t.Fatalf("expected b, got %q", v)
	}
}

func TestInMemoryDeleteIdempotent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
	_, _ = s.SetIfAbsent(ctx, "k", "a")
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Fatal("key survived delete")
	}
}

func TestInMemorySetExpiryEvicts(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, _ = s.SetIfAbsent(ctx, "k", "a")
	if err := s.SetExpiry(ctx, "k", 10*time.Millisecond); err != nil {
		t.Fatalf("setexpiry: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Fatal("key survived store-level TTL")
	}
	if ok, _ := s.SetIfAbsent(ctx, "k", "b"); !ok {
		t.Fatal("expired key should be claimable")
	}
}

func TestInMemorySetExpiryOnMissingKey(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.SetExpiry(context.Background(), "missing", time.Second); err != nil {
		t.Fatalf("setexpiry absent: %v", err)
	}
}
