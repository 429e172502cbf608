package persist

// ResolveKey computes the effective storage key for one strategy: the global
// prefix followed by the strategy key, falling back to the store identifier
// when the strategy does not override it. Pure and deterministic: the
// restore engine and the write pipeline both rely on the same inputs
// resolving to the same key to read back what was written.
func ResolveKey(prefix, strategyKey, storeID string) string {
	if strategyKey == "" {
		strategyKey = storeID
	}
	return prefix + strategyKey
}
