package persist

import (
	"context"
	"fmt"

	"github.com/goliatone/go-persist/pkg/observe"
)

// restore loads, decodes, and merges persisted records into the store for
// every strategy, in declaration order. Later strategies overwrite fields
// set by earlier ones when their paths overlap (intentional
// last-writer-wins for overlapping strategies). Lifecycle hooks run exactly
// once per attach, not once per strategy. Corrupt records are removed so a
// poisoned key cannot block every future load.
func (p *Plugin) restore(ctx context.Context, att *Attachment) {
	store := att.store
	hookCtx := RestoreContext{Store: store, Backend: p.backend, Prefix: p.cfg.prefix}
	if att.cfg.BeforeRestore != nil {
		att.cfg.BeforeRestore(hookCtx)
	}

	for i := range att.cfg.Strategies {
		key := att.keys[i]
		raw, ok, err := p.backend.Get(ctx, key)
		if err != nil {
			p.heal(ctx, store.ID(), key, err)
			continue
		}
		if !ok || raw == "" {
			continue
		}
		value, err := Decode(raw)
		if err != nil {
			p.heal(ctx, store.ID(), key, err)
			continue
		}
		patch, ok := value.(map[string]any)
		if !ok {
			p.heal(ctx, store.ID(), key, fmt.Errorf("persist: record at %q is not an object", key))
			continue
		}
		store.Patch(patch)
		p.cfg.logger.LogPersist(LogEvent{Op: "restore", StoreID: store.ID(), Key: key, Size: len(raw)})
		p.emit(observe.Event{Op: observe.OpRestore, StoreID: store.ID(), Key: key, Size: len(raw)})
	}

	if att.cfg.AfterRestore != nil {
		att.cfg.AfterRestore(hookCtx)
	}
}

// heal logs a corrupted or unreadable record and removes its key, then lets
// the caller continue with the remaining strategies.
func (p *Plugin) heal(ctx context.Context, storeID, key string, cause error) {
	p.cfg.logger.LogPersist(LogEvent{Level: LevelError, Op: "restore", StoreID: storeID, Key: key, Err: cause})
	if err := p.backend.Remove(ctx, key); err != nil {
		p.cfg.logger.LogPersist(LogEvent{Level: LevelError, Op: "purge", StoreID: storeID, Key: key, Err: err})
	}
	p.emit(observe.Event{Op: observe.OpPurge, StoreID: storeID, Key: key, Err: cause.Error()})
}
