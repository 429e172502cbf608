// Package observe fans persistence events out to registered hooks. It is the
// integration surface for audit trails and metrics: the plugin emits one
// event per restore patch, per dispatched write, and per purge or clear, and
// hook failures never reach the persistence paths that produced them.
package observe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Op identifies the persistence operation an event describes.
type Op string

const (
	OpRestore Op = "restore"
	OpWrite   Op = "write"
	OpPurge   Op = "purge"
	OpClear   Op = "clear"
)

// Event describes one persistence occurrence. IDs are stringly-typed UUIDs
// to avoid coupling call sites to a specific UUID type.
type Event struct {
	ID      string
	Op      Op
	StoreID string
	Key     string
	// Size is the encoded record length in bytes, zero for non-write ops.
	Size int
	// Async reports whether the write was dispatched fire-and-forget.
	Async bool
	// Err carries the failure text when the operation failed.
	Err        string
	OccurredAt time.Time
}

// NormalizeEvent trims identifier fields and fills in the event ID and
// timestamp when absent.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.StoreID = strings.TrimSpace(event.StoreID)
	normalized.Key = strings.TrimSpace(event.Key)
	normalized.Err = strings.TrimSpace(event.Err)
	if normalized.ID == "" {
		normalized.ID = uuid.NewString()
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}
