package persist

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"
)

// Function represents a callable exposed to strategy conditions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom condition functions. Lookup is
// case-insensitive; Names reports the casing used at registration, which is
// also how the engines bind the functions into expressions.
type FunctionRegistry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	name string
	fn   Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		entries: make(map[string]registryEntry),
	}
}

// NewConditionFunctions returns a registry pre-loaded with helpers strategy
// conditions commonly need when deciding whether a snapshot is worth
// persisting:
//
//	nonEmpty(value)    true unless value is nil, "", an empty map/list, or a zero time
//	encodedSize(value) the storage-record byte length value would encode to
//
// Additional functions can be registered alongside them.
func NewConditionFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("nonEmpty", nonEmptyFn)
	_ = r.Register("encodedSize", encodedSizeFn)
	return r
}

func nonEmptyFn(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("persist: nonEmpty expects one argument, got %d", len(args))
	}
	switch value := args[0].(type) {
	case nil:
		return false, nil
	case string:
		return value != "", nil
	case map[string]any:
		return len(value) > 0, nil
	case []any:
		return len(value) > 0, nil
	case time.Time:
		return !value.IsZero(), nil
	case *big.Int:
		return value != nil && value.Sign() != 0, nil
	default:
		return true, nil
	}
}

func encodedSizeFn(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("persist: encodedSize expects one argument, got %d", len(args))
	}
	record, err := Encode(args[0])
	if err != nil {
		return nil, err
	}
	return len(record), nil
}

// Register stores fn under name guarding against duplicates. Names differing
// only in case count as duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("persist: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("persist: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]registryEntry)
	}
	key := strings.ToLower(name)
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("persist: function %q already registered", name)
	}
	r.entries[key] = registryEntry{name: name, fn: fn}
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		entries: make(map[string]registryEntry, len(r.entries)),
	}
	for key, entry := range r.entries {
		clone.entries[key] = entry
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("persist: function registry is nil")
	}
	r.mu.RLock()
	entry, ok := r.entries[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("persist: function %q not registered", name)
	}
	return entry.fn(args...)
}

// Names returns registered function names, in registration casing, sorted
// alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes registry functions to strategy conditions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *pluginConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for strategy conditions.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *pluginConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
