package persist

import (
	"time"

	"github.com/goliatone/go-persist/pkg/storage"
)

// Snapshot is the full state of a store at a point in time, keyed by
// top-level field name. Values may include nested maps, slices, dates
// (time.Time), big integers (*big.Int), and, for encoding purposes only,
// cyclic references.
type Snapshot = map[string]any

// Mutation describes one committed state change.
type Mutation struct {
	StoreID string
	Keys    []string
	At      time.Time
}

// SubscriberFunc receives a mutation together with the resulting full state.
type SubscriberFunc func(mutation Mutation, state Snapshot)

// Store is the reactive state container the plugin attaches to. The store
// framework owns state and mutation delivery; the plugin only observes
// mutations and patches decoded snapshots back in.
type Store interface {
	// ID returns the stable per-store identifier used as the default
	// storage key.
	ID() string
	// Snapshot returns the current full state.
	Snapshot() Snapshot
	// Patch merges a partial snapshot into state. Fields absent from the
	// patch keep their current values.
	Patch(patch Snapshot)
	// Subscribe registers fn for mutation notifications and returns a
	// function that removes the subscription.
	Subscribe(fn SubscriberFunc) (unsubscribe func())
}

// ResetFunc restores a store to its declared defaults.
type ResetFunc func()

// Resettable is an optional store capability exposing an overridable reset
// slot. The plugin composes with the current function rather than replacing
// behavior: the original reset still runs first, and the slot stays
// overridable afterwards.
type Resettable interface {
	ResetFunc() ResetFunc
	SetResetFunc(fn ResetFunc)
}

// RestoreContext is handed to restore lifecycle hooks.
type RestoreContext struct {
	Store   Store
	Backend storage.Backend
	Prefix  string
}

// RestoreHook runs around the restore phase of an attach.
type RestoreHook func(ctx RestoreContext)

// Strategy is one persistence rule within a store's configuration. Multiple
// strategies may coexist for one store, each independently keyed and scoped.
type Strategy struct {
	// Key overrides the storage key; empty falls back to the store ID.
	Key string `persist:"key"`
	// Paths names the top-level fields to persist; empty means the entire
	// state.
	Paths []string `persist:"paths"`
	// Async overrides the configuration-wide write mode when non-nil.
	Async *bool `persist:"async"`
	// Condition is an optional expression evaluated against the snapshot on
	// each mutation; an explicit false result skips this strategy's write.
	Condition string `persist:"condition"`
}

// asyncMode resolves the effective write mode for the strategy.
func (s Strategy) asyncMode(global bool) bool {
	if s.Async != nil {
		return *s.Async
	}
	return global
}

// Config declares persistence for one store. It is read-only from the
// plugin's perspective once attached. Missing fields default silently: no
// strategies means a single implicit strategy keyed by the store ID covering
// the entire state.
type Config struct {
	Enabled    bool       `persist:"enabled"`
	Strategies []Strategy `persist:"strategies"`
	// Async is the default write mode for strategies that do not override it.
	Async         bool        `persist:"async"`
	BeforeRestore RestoreHook `persist:"-"`
	AfterRestore  RestoreHook `persist:"-"`
}
