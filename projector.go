package persist

// Project extracts the subset of snapshot named by paths. An empty or nil
// paths list returns a shallow copy of the entire snapshot. Paths missing
// from the snapshot are silently skipped, not defaulted.
func Project(snapshot Snapshot, paths []string) Snapshot {
	if snapshot == nil {
		return nil
	}
	if len(paths) == 0 {
		out := make(Snapshot, len(snapshot))
		for key, value := range snapshot {
			out[key] = value
		}
		return out
	}

	out := make(Snapshot, len(paths))
	for _, path := range paths {
		if value, ok := snapshot[path]; ok {
			out[path] = value
		}
	}
	return out
}
