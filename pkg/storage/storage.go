package storage

import "context"

// Backend is the key-value storage contract consumed by the persistence
// plugin. Values are opaque strings; absence is reported through the ok
// return of Get rather than an error.
type Backend interface {
	// Get returns the record stored under key, with ok false when the key
	// is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key synchronously.
	Set(ctx context.Context, key, value string) error
	// SetAsync stores value under key without blocking the caller. The done
	// callback, when non-nil, receives the outcome exactly once.
	SetAsync(ctx context.Context, key, value string, done func(error))
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear wipes every key in the backend, including keys unrelated to the
	// caller.
	Clear(ctx context.Context) error
}
