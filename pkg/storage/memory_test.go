package storage_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-persist/pkg/storage"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ctx := context.Background()

	if _, ok, err := backend.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "session", `{"token":"abc"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := backend.Get(ctx, "session")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `{"token":"abc"}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := backend.Remove(ctx, "session"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "session"); ok {
		t.Fatal("expected key removed")
	}
}

func TestMemoryBackendSetAsyncInvokesCallback(t *testing.T) {
	backend := storage.NewMemoryBackend()
	done := make(chan error, 1)

	backend.SetAsync(context.Background(), "cart", "[]", func(err error) {
		done <- err
	})

	if err := <-done; err != nil {
		t.Fatalf("async set: %v", err)
	}
	if _, ok, _ := backend.Get(context.Background(), "cart"); !ok {
		t.Fatal("expected async write visible")
	}
}

func TestMemoryBackendClear(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ctx := context.Background()

	backend.Set(ctx, "a", "1")
	backend.Set(ctx, "b", "2")
	if got := backend.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected sorted keys [a b], got %v", got)
	}

	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if backend.Len() != 0 {
		t.Fatalf("expected empty backend, got %d keys", backend.Len())
	}
}
