package player

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cthoyt/pyrdle/internal/solver"
	"github.com/cthoyt/pyrdle/internal/words"
)

// DefaultCacheSize bounds the number of constraint sets a FilterCache keeps.
const DefaultCacheSize = 1 << 14

// FilterCache memoizes solver.Candidates by constraint key. It belongs to
// one sweep over one corpus and is safe for concurrent players.
type FilterCache struct {
	entries *lru.Cache[string, []string]
}

// NewFilterCache returns an empty cache; size <= 0 uses DefaultCacheSize.
func NewFilterCache(size int) (*FilterCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &FilterCache{entries: c}, nil
}

// Len reports the number of memoized constraint sets.
func (fc *FilterCache) Len() int { return fc.entries.Len() }

// Purge drops every entry.
func (fc *FilterCache) Purge() { fc.entries.Purge() }

func (fc *FilterCache) source(corpus *words.Corpus) candidateSource {
	return func(c solver.Constraints) []string {
		key := c.Key()
		if list, ok := fc.entries.Get(key); ok {
			return list
		}
		list := solver.Candidates(corpus, c, nil)
		fc.entries.Add(key, list)
		return list
	}
}
