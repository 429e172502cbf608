package persist

import (
	"context"

	"github.com/goliatone/go-persist/pkg/observe"
)

// SoftSizeLimit is the encoded-record size in bytes (3.5 MiB) beyond which a
// write logs a warning. The write is still attempted; whether it fits is the
// backend's call.
const SoftSizeLimit = 3584 * 1024

// onMutation projects, encodes, and dispatches every strategy for one
// mutation. All strategies are dispatched before the next mutation is
// handled; asynchronous backend completion is not awaited. A failure in one
// strategy never prevents the remaining strategies, or future mutations,
// from being processed.
func (a *Attachment) onMutation(_ Mutation, state Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// The pipeline outlives whichever caller triggered the mutation, so
	// writes run on a detached context.
	ctx := context.Background()
	for i, strategy := range a.cfg.Strategies {
		a.dispatch(ctx, i, strategy, state)
	}
}

func (a *Attachment) dispatch(ctx context.Context, idx int, strategy Strategy, state Snapshot) {
	p := a.plugin
	storeID := a.store.ID()
	key := a.keys[idx]

	if rule := a.conditions[idx]; rule != nil {
		result, err := rule.Evaluate(RuleContext{Snapshot: state, StoreID: storeID, Key: key})
		if err != nil {
			// Fail open: condition failures never stop persistence.
			p.cfg.logger.LogPersist(LogEvent{Level: LevelWarn, Op: "condition", StoreID: storeID, Key: key, Err: err})
		} else if keep, ok := result.(bool); ok && !keep {
			return
		}
	}

	record, err := Encode(Project(state, strategy.Paths))
	if err != nil {
		p.cfg.logger.LogPersist(LogEvent{Level: LevelError, Op: "write", StoreID: storeID, Key: key, Err: err})
		return
	}
	size := len(record)
	if size > SoftSizeLimit {
		p.cfg.logger.LogPersist(LogEvent{Level: LevelWarn, Op: "size", StoreID: storeID, Key: key, Size: size})
	}

	if strategy.asyncMode(a.cfg.Async) {
		p.backend.SetAsync(ctx, key, record, func(err error) {
			if err != nil {
				p.cfg.logger.LogPersist(LogEvent{Level: LevelError, Op: "write", StoreID: storeID, Key: key, Size: size, Async: true, Err: err})
			}
			p.emit(writeEvent(storeID, key, size, true, err))
		})
		return
	}

	if err := p.backend.Set(ctx, key, record); err != nil {
		p.cfg.logger.LogPersist(LogEvent{Level: LevelError, Op: "write", StoreID: storeID, Key: key, Size: size, Err: err})
		p.emit(writeEvent(storeID, key, size, false, err))
		return
	}
	p.emit(writeEvent(storeID, key, size, false, nil))
}

func writeEvent(storeID, key string, size int, async bool, err error) observe.Event {
	event := observe.Event{Op: observe.OpWrite, StoreID: storeID, Key: key, Size: size, Async: async}
	if err != nil {
		event.Err = err.Error()
	}
	return event
}
