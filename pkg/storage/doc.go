// Package storage defines the key-value backend contract the persistence
// plugin writes through, plus an in-memory reference implementation.
//
// Responsibilities:
//   - Backend only moves opaque string records for single keys; it knows
//     nothing about snapshots, strategies, or encoding.
//   - Synchronous Get/Set/Remove serve the restore engine and latency-
//     sensitive writes; SetAsync serves fire-and-forget writes with a
//     completion callback.
//   - Clear wipes the whole backend, including keys the plugin never wrote.
//
// Implementations must be safe for concurrent use: the write pipeline may
// dispatch asynchronous writes while a restore or purge runs elsewhere.
package storage
