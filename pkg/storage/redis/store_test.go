package redis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/goliatone/go-persist/pkg/storage/redis"
)

// fakeClient overrides the commands the backend issues; the embedded
// interface panics on anything else, catching accidental command use.
type fakeClient struct {
	redis.Cmdable
	records map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	delErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		records: map[string]string{},
		ttls:    map[string]time.Duration{},
	}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if f.getErr != nil {
		cmd.SetErr(f.getErr)
		return cmd
	}
	value, ok := f.records[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(value)
	return cmd
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.records[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	if f.delErr != nil {
		cmd.SetErr(f.delErr)
		return cmd
	}
	removed := int64(0)
	for _, key := range keys {
		if _, ok := f.records[key]; ok {
			delete(f.records, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func (f *fakeClient) FlushDB(ctx context.Context) *redis.StatusCmd {
	f.records = map[string]string{}
	f.ttls = map[string]time.Duration{}
	cmd := redis.NewStatusCmd(ctx, "flushdb")
	cmd.SetVal("OK")
	return cmd
}

func TestBackendRoundTrip(t *testing.T) {
	client := newFakeClient()
	backend := redisstore.New(client)
	ctx := context.Background()

	// redis.Nil means absent, not an error.
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

func TestBackendAppliesTTL(t *testing.T) {
	client := newFakeClient()
	backend := redisstore.New(client, redisstore.WithTTL(time.Minute))

	if err := backend.Set(context.Background(), "session", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if client.ttls["session"] != time.Minute {
		t.Fatalf("expected one-minute expiry, got %v", client.ttls["session"])
	}

	plain := redisstore.New(newFakeClient())
	if err := plain.Set(context.Background(), "session", "v"); err != nil {
		t.Fatalf("set without ttl: %v", err)
	}
}

func TestBackendWrapsClientFailures(t *testing.T) {
	client := newFakeClient()
	cause := errors.New("connection reset")
	client.getErr = cause

	backend := redisstore.New(client)
	if _, _, err := backend.Get(context.Background(), "session"); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped get failure, got %v", err)
	}

	client.getErr = nil
	client.setErr = cause
	if err := backend.Set(context.Background(), "session", "v"); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped set failure, got %v", err)
	}

	client.setErr = nil
	client.delErr = cause
	if err := backend.Remove(context.Background(), "session"); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped del failure, got %v", err)
	}
}

func TestBackendSetAsyncDeliversOutcome(t *testing.T) {
	client := newFakeClient()
	backend := redisstore.New(client)

	done := make(chan error, 1)
	backend.SetAsync(context.Background(), "cart", "[]", func(err error) {
		done <- err
	})

	if err := <-done; err != nil {
		t.Fatalf("async set: %v", err)
	}
	if client.records["cart"] != "[]" {
		t.Fatalf("expected async write applied, got %#v", client.records)
	}
}

func TestBackendClearFlushesDatabase(t *testing.T) {
	client := newFakeClient()
	backend := redisstore.New(client)
	ctx := context.Background()

	backend.Set(ctx, "a", "1")
	backend.Set(ctx, "b", "2")
	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(client.records) != 0 {
		t.Fatalf("expected flushed database, got %#v", client.records)
	}
}
