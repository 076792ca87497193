package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGetDelete(t *testing.T) {
	s := NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for absent key")
	}

	s.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := s.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected hit with %q, got %q (ok=%v)", "v", got, ok)
	}

	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}

	// Deleting again must not panic.
	s.Delete(ctx, "k")
}

func TestMemory_Expiry(t *testing.T) {
	s := NewMemory(time.Minute)
	ctx := context.Background()

	s.Set(ctx, "short", []byte("x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get(ctx, "short"); ok {
		t.Fatalf("expected entry to have expired")
	}
}

func TestMemory_NoExpiryForZeroTTL(t *testing.T) {
	s := NewMemory(time.Minute)
	ctx := context.Background()

	s.Set(ctx, "forever", []byte("x"), 0)
	if _, ok := s.Get(ctx, "forever"); !ok {
		t.Fatalf("expected zero-ttl entry to persist")
	}
}
