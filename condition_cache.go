package persist

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// NewLRUProgramCache returns a ProgramCache bounded to size entries with
// least-recently-used eviction.
func NewLRUProgramCache(size int) (ProgramCache, error) {
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("persist: program cache: %w", err)
	}
	return &lruProgramCache{entries: entries}, nil
}

type lruProgramCache struct {
	entries *lru.Cache[string, any]
}

func (c *lruProgramCache) Get(key string) (any, bool) {
	return c.entries.Get(key)
}

func (c *lruProgramCache) Set(key string, value any) {
	c.entries.Add(key, value)
}
