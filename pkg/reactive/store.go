// Package reactive provides a minimal reactive store implementation for
// tests, examples, and embedders that do not bring their own store
// framework. It implements persist.Store and persist.Resettable: state is a
// snapshot map with deep-merge patching, subscribers are notified once per
// logical update (and not at all when a patch changes nothing), and reset is
// an overridable function slot that restores the declared defaults.
//
// State must be acyclic: Snapshot returns deep copies, and copying does not
// guard against cycles the way persist.Encode does.
package reactive

import (
	"reflect"
	"sort"
	"sync"
	"time"

	persist "github.com/goliatone/go-persist"
)

// Store is an in-memory reactive state container. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	id       string
	defaults persist.Snapshot
	state    persist.Snapshot
	subs     map[int]persist.SubscriberFunc
	nextSub  int
	resetFn  persist.ResetFunc
}

var (
	_ persist.Store      = (*Store)(nil)
	_ persist.Resettable = (*Store)(nil)
)

// New returns a store identified by id, initialized to a deep copy of
// defaults. Reset restores these defaults unless the slot is overridden.
func New(id string, defaults persist.Snapshot) *Store {
	s := &Store{
		id:       id,
		defaults: persist.CloneSnapshot(defaults),
		state:    persist.CloneSnapshot(defaults),
		subs:     map[int]persist.SubscriberFunc{},
	}
	s.resetFn = s.restoreDefaults
	return s
}

// ID returns the stable store identifier.
func (s *Store) ID() string {
	return s.id
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() persist.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return persist.CloneSnapshot(s.state)
}

// Set mutates a single top-level field.
func (s *Store) Set(key string, value any) {
	s.Patch(persist.Snapshot{key: value})
}

// Patch deep-merges patch into state and notifies subscribers once for the
// whole patch. Notification is suppressed when nothing effectively changed;
// nested changes count because comparison is deep, not top-level identity.
func (s *Store) Patch(patch persist.Snapshot) {
	if len(patch) == 0 {
		return
	}
	s.mu.Lock()
	subs, mutation, state, ok := s.applyLocked(persist.MergeSnapshots(s.state, patch))
	s.mu.Unlock()
	if !ok {
		return
	}
	for _, fn := range subs {
		fn(mutation, state)
	}
}

// Subscribe registers fn for mutation notifications. The returned function
// removes the subscription; until then the subscription outlives whichever
// caller created it.
func (s *Store) Subscribe(fn persist.SubscriberFunc) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Reset invokes the current reset function.
func (s *Store) Reset() {
	s.mu.RLock()
	fn := s.resetFn
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// ResetFunc returns the current reset function.
func (s *Store) ResetFunc() persist.ResetFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resetFn
}

// SetResetFunc overrides the reset slot.
func (s *Store) SetResetFunc(fn persist.ResetFunc) {
	s.mu.Lock()
	s.resetFn = fn
	s.mu.Unlock()
}

// restoreDefaults replaces state with the declared defaults, dropping fields
// the defaults never had.
func (s *Store) restoreDefaults() {
	s.mu.Lock()
	subs, mutation, state, ok := s.applyLocked(persist.CloneSnapshot(s.defaults))
	s.mu.Unlock()
	if !ok {
		return
	}
	for _, fn := range subs {
		fn(mutation, state)
	}
}

// applyLocked swaps in next and prepares the notification payload. The
// caller must hold the write lock and deliver the notification after
// releasing it.
func (s *Store) applyLocked(next persist.Snapshot) ([]persist.SubscriberFunc, persist.Mutation, persist.Snapshot, bool) {
	changed := changedKeys(s.state, next)
	if len(changed) == 0 {
		return nil, persist.Mutation{}, nil, false
	}
	s.state = next

	subs := make([]persist.SubscriberFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	mutation := persist.Mutation{StoreID: s.id, Keys: changed, At: time.Now()}
	return subs, mutation, persist.CloneSnapshot(s.state), true
}

func changedKeys(before, after persist.Snapshot) []string {
	keys := make([]string, 0, len(after))
	for key, value := range after {
		previous, ok := before[key]
		if !ok || !reflect.DeepEqual(previous, value) {
			keys = append(keys, key)
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
