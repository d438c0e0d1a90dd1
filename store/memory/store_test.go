package memory

import (
	"context"
	"errors"
	"testing"

	streamless "github.com/streamless/streamless"
)

func TestSetGetHas(t *testing.T) {
	ctx := context.Background()
	s := New()

	if ok, err := s.Has(ctx, "plan:p1:amount"); err != nil || ok {
		t.Fatalf("Has on empty store = %v, %v", ok, err)
	}

	if _, err := s.Get(ctx, "plan:p1:amount"); !errors.Is(err, streamless.ErrKeyNotFound) {
		t.Fatalf("Get on absent key: expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set(ctx, "plan:p1:amount", "100"); err != nil {
		t.Fatal(err)
	}

	if ok, _ := s.Has(ctx, "plan:p1:amount"); !ok {
		t.Fatal("Has after Set = false")
	}

	v, err := s.Get(ctx, "plan:p1:amount")
	if err != nil {
		t.Fatal(err)
	}
	if v != "100" {
		t.Errorf("Get = %q, want %q", v, "100")
	}

	// Overwrite.
	if err := s.Set(ctx, "plan:p1:amount", "250"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(ctx, "plan:p1:amount"); v != "250" {
		t.Errorf("Get after overwrite = %q, want %q", v, "250")
	}
}

func TestInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	keys := []string{"b", "a", "c"}
	for _, k := range keys {
		if err := s.Set(ctx, k, "v"); err != nil {
			t.Fatal(err)
		}
	}
	// Overwriting must not change order.
	if err := s.Set(ctx, "a", "v2"); err != nil {
		t.Fatal(err)
	}

	got := s.Keys()
	if len(got) != len(keys) {
		t.Fatalf("Keys = %v, want %v", got, keys)
	}
	for i := range keys {
		if got[i] != keys[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, got[i], keys[i])
		}
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Set(ctx, "k", "v"); !errors.Is(err, streamless.ErrStoreClosed) {
		t.Errorf("Set after Close: expected ErrStoreClosed, got %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, streamless.ErrStoreClosed) {
		t.Errorf("Get after Close: expected ErrStoreClosed, got %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, streamless.ErrStoreClosed) {
		t.Errorf("Ping after Close: expected ErrStoreClosed, got %v", err)
	}
}
