package persist

// MergeSnapshots composes base and patch into a new snapshot without
// mutating either: fields present in the patch overwrite the base, nested
// maps merge recursively, and everything else (slices included) is replaced
// wholesale. Fields absent from the patch keep their base values.
func MergeSnapshots(base, patch Snapshot) Snapshot {
	if base == nil && patch == nil {
		return nil
	}

	merged := make(Snapshot, len(base)+len(patch))
	for key, value := range base {
		merged[key] = cloneValue(value)
	}
	for key, value := range patch {
		if existing, ok := merged[key].(map[string]any); ok {
			if incoming, ok := value.(map[string]any); ok {
				merged[key] = MergeSnapshots(existing, incoming)
				continue
			}
		}
		merged[key] = cloneValue(value)
	}
	return merged
}

// CloneSnapshot returns a deep copy of s. Maps and slices are copied;
// scalar values (dates and big integers included) are shared. The snapshot
// must be acyclic; cyclic graphs are only supported by Encode.
func CloneSnapshot(s Snapshot) Snapshot {
	if s == nil {
		return nil
	}
	clone := make(Snapshot, len(s))
	for key, value := range s {
		clone[key] = cloneValue(value)
	}
	return clone
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return CloneSnapshot(value)
	case []any:
		clone := make([]any, len(value))
		for i, item := range value {
			clone[i] = cloneValue(item)
		}
		return clone
	default:
		return v
	}
}
