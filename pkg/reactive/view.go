package reactive

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// View decodes the store's current snapshot into a typed struct. Fields map
// by `persist` struct tag, falling back to case-insensitive field names, and
// decoding is weakly typed. The returned value is detached from the store;
// mutating it does not affect state.
func View[T any](s *Store) (T, error) {
	var out T
	if s == nil {
		return out, fmt.Errorf("reactive: store is nil")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "persist",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, fmt.Errorf("reactive: view decoder: %w", err)
	}
	if err := decoder.Decode(s.Snapshot()); err != nil {
		return out, fmt.Errorf("reactive: view: %w", err)
	}
	return out, nil
}
