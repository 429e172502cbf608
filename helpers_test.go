package persist_test

import (
	"context"
	"sync"

	persist "github.com/goliatone/go-persist"
)

// fakeBackend is an in-memory storage backend with call counters and
// injectable failures. SetAsync applies synchronously and invokes done
// inline so tests stay deterministic.
type fakeBackend struct {
	mu          sync.Mutex
	records     map[string]string
	setCalls    []string
	asyncCalls  []string
	removeCalls []string
	getErr      map[string]error
	setErr      map[string]error
	asyncErr    map[string]error
	removeErr   map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{records: map[string]string{}}
}

func (b *fakeBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.getErr[key]; err != nil {
		return "", false, err
	}
	value, ok := b.records[key]
	return value, ok, nil
}

func (b *fakeBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCalls = append(b.setCalls, key)
	if err := b.setErr[key]; err != nil {
		return err
	}
	b.records[key] = value
	return nil
}

func (b *fakeBackend) SetAsync(_ context.Context, key, value string, done func(error)) {
	b.mu.Lock()
	b.asyncCalls = append(b.asyncCalls, key)
	err := b.asyncErr[key]
	if err == nil {
		b.records[key] = value
	}
	b.mu.Unlock()
	if done != nil {
		done(err)
	}
}

func (b *fakeBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeCalls = append(b.removeCalls, key)
	if err := b.removeErr[key]; err != nil {
		return err
	}
	delete(b.records, key)
	return nil
}

func (b *fakeBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = map[string]string{}
	return nil
}

func (b *fakeBackend) record(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.records[key]
	return value, ok
}

func (b *fakeBackend) removed(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range b.removeCalls {
		if k == key {
			return true
		}
	}
	return false
}

// captureLogger records every log event for assertions.
type captureLogger struct {
	mu     sync.Mutex
	events []persist.LogEvent
}

func (l *captureLogger) LogPersist(event persist.LogEvent) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *captureLogger) count(op string, level persist.Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, event := range l.events {
		if event.Op == op && event.Level == level {
			n++
		}
	}
	return n
}

func boolPtr(v bool) *bool {
	return &v
}
