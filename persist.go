// Package persist is a state-persistence add-on for reactive stores: on
// attach it restores previously persisted state into the store, and on every
// subsequent mutation it projects, encodes, and writes state back to a
// pluggable key-value storage backend. Persistence failures never crash the
// host: every failure path logs and degrades (skip, default, or continue).
package persist

import (
	"context"
	"sync"

	"github.com/goliatone/go-persist/pkg/observe"
	"github.com/goliatone/go-persist/pkg/storage"
)

// Plugin persists store state into a storage backend. One instance serves
// any number of stores; per-instance options (key prefix, logger, condition
// engine, hooks) apply to all of them.
type Plugin struct {
	backend storage.Backend
	cfg     pluginConfig
}

type pluginConfig struct {
	prefix       string
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	hooks        observe.Hooks
}

// Option configures a Plugin.
type Option func(*pluginConfig)

// WithKeyPrefix prepends prefix to every storage key resolved for stores
// using this plugin instance.
func WithKeyPrefix(prefix string) Option {
	return func(cfg *pluginConfig) {
		cfg.prefix = prefix
	}
}

// WithHooks registers observe hooks notified on restore, write, purge, and
// clear operations.
func WithHooks(hooks ...observe.Hook) Option {
	return func(cfg *pluginConfig) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.hooks = append(cfg.hooks, hook)
			}
		}
	}
}

func applyOptions(opts []Option) pluginConfig {
	cfg := pluginConfig{logger: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// New constructs a Plugin writing through backend. Strategy conditions use
// the expr engine unless WithEvaluator overrides it.
func New(backend storage.Backend, opts ...Option) *Plugin {
	cfg := applyOptions(opts)
	if cfg.evaluator == nil {
		var engineOpts []ExprEvaluatorOption
		if cfg.programCache != nil {
			engineOpts = append(engineOpts, ExprWithProgramCache(cfg.programCache))
		}
		if cfg.functions != nil {
			engineOpts = append(engineOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		cfg.evaluator = NewExprEvaluator(engineOpts...)
	}
	return &Plugin{backend: backend, cfg: cfg}
}

// Attach restores persisted state into store and installs the write pipeline
// and reset interceptor. The restore runs synchronously before the pipeline
// subscribes, so the restore's own patch is never observed as a user
// mutation. A disabled configuration returns an inert attachment without
// touching the backend.
func (p *Plugin) Attach(ctx context.Context, store Store, cfg Config) (*Attachment, error) {
	if p == nil || p.backend == nil {
		return nil, ErrNilBackend
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Enabled {
		return &Attachment{store: store}, nil
	}

	cfg = normalizeConfig(cfg, store.ID())
	att := &Attachment{
		plugin:     p,
		store:      store,
		cfg:        cfg,
		keys:       make([]string, len(cfg.Strategies)),
		conditions: make([]CompiledRule, len(cfg.Strategies)),
	}
	for i, strategy := range cfg.Strategies {
		att.keys[i] = ResolveKey(p.cfg.prefix, strategy.Key, store.ID())
		if strategy.Condition == "" {
			continue
		}
		rule, err := p.cfg.evaluator.Compile(strategy.Condition)
		if err != nil {
			// Fail open: a broken condition must not stop persistence.
			p.cfg.logger.LogPersist(LogEvent{Level: LevelWarn, Op: "condition", StoreID: store.ID(), Key: att.keys[i], Err: err})
			continue
		}
		att.conditions[i] = rule
	}

	p.restore(ctx, att)
	att.unsubscribe = store.Subscribe(att.onMutation)
	p.interceptReset(att)
	return att, nil
}

// Attachment is one store's live persistence wiring.
type Attachment struct {
	plugin     *Plugin
	store      Store
	cfg        Config
	keys       []string
	conditions []CompiledRule

	mu          sync.Mutex
	unsubscribe func()
}

// Keys returns the resolved storage key of each strategy, in declaration
// order. Inert attachments have none.
func (a *Attachment) Keys() []string {
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Detach stops the write pipeline. Persisted records and the composed reset
// stay in place.
func (a *Attachment) Detach() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// emit fans an event out to the configured hooks. Hook failures are logged
// and dropped; they never reach the persistence path that emitted the event.
func (p *Plugin) emit(event observe.Event) {
	if !p.cfg.hooks.Enabled() {
		return
	}
	if err := p.cfg.hooks.Notify(context.Background(), event); err != nil {
		p.cfg.logger.LogPersist(LogEvent{Level: LevelWarn, Op: "observe", StoreID: event.StoreID, Key: event.Key, Err: err})
	}
}

// ClearStore removes one raw storage key. The key is used verbatim; resolve
// prefixed keys with ResolveKey first.
func ClearStore(ctx context.Context, backend storage.Backend, key string) error {
	if backend == nil {
		return ErrNilBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return backend.Remove(ctx, key)
}

// ClearAll wipes the entire storage backend. This removes every key the
// backend holds, including keys written by other plugins or by the host
// application itself. Only safe when the backend is dedicated to persisted
// store state.
func ClearAll(ctx context.Context, backend storage.Backend) error {
	if backend == nil {
		return ErrNilBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return backend.Clear(ctx)
}
