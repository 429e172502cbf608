package persist

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// normalizeConfig applies the silent defaults the configuration contract
// promises: a store that declares persistence without strategies gets a
// single implicit strategy keyed by its own identifier, covering the entire
// state.
func normalizeConfig(cfg Config, storeID string) Config {
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = []Strategy{{Key: storeID}}
	}
	return cfg
}

// ParseConfig decodes a loosely typed configuration map into a Config, for
// hosts that declare persistence in data (YAML or JSON store definitions)
// rather than code. Decoding is weakly typed: "true", 1, and true are all
// accepted for booleans. Lifecycle hooks cannot be expressed in data and are
// left nil.
func ParseConfig(raw map[string]any) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "persist",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("persist: config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("persist: parse config: %w", err)
	}
	return cfg, nil
}
