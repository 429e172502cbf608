package persist

import (
	"context"

	"github.com/goliatone/go-persist/pkg/observe"
)

// interceptReset composes purge-on-reset onto the store's reset slot, when
// the store exposes one. The original reset runs unchanged first; then every
// strategy key is removed from the backend regardless of the original's
// outcome. Removal errors are logged but never surface to the reset caller,
// and the slot remains overridable afterwards.
func (p *Plugin) interceptReset(att *Attachment) {
	resettable, ok := att.store.(Resettable)
	if !ok {
		return
	}

	original := resettable.ResetFunc()
	storeID := att.store.ID()
	keys := att.Keys()
	resettable.SetResetFunc(func() {
		if original != nil {
			original()
		}
		ctx := context.Background()
		for _, key := range keys {
			if err := p.backend.Remove(ctx, key); err != nil {
				p.cfg.logger.LogPersist(LogEvent{Level: LevelWarn, Op: "purge", StoreID: storeID, Key: key, Err: err})
				continue
			}
			p.emit(observe.Event{Op: observe.OpPurge, StoreID: storeID, Key: key})
		}
	})
}
