package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type option struct {
		Label string `json:"label"`
	}
	if err := s.Set(ctx, "k", []option{{Label: "a"}, {Label: "b"}}, DefaultTTL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []option
	found, err := s.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a hit")
	}
	if len(got) != 2 || got[0].Label != "a" {
		t.Errorf("unexpected value: %+v", got)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore()

	var got string
	found, err := s.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected a miss for an absent key")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "a", 1, DefaultTTL)
	s.Set(ctx, "b", 2, DefaultTTL)
	if err := s.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got int
	if found, _ := s.Get(ctx, "a", &got); found {
		t.Error("expected key to be gone after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Nanosecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if found, _ := s.Get(ctx, "k", &got); found {
		t.Error("expected the entry to expire")
	}
}
