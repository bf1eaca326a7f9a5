// internal/words/cache.go
//
// Corpus cache keyed by (length, locale).
// Building a corpus normalizes and counts a whole vocabulary, so the result is
// kept in a bounded LRU and concurrent misses for the same key share a single
// construction.

package words

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Key identifies one corpus.
type Key struct {
	Length int
	Locale string
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Locale, k.Length) }

// Cache builds corpora on demand from a Provider and keeps them around.
// It is safe for concurrent use.
type Cache struct {
	provider Provider
	corpora  *lru.Cache[Key, *Corpus]
	group    singleflight.Group
}

// NewCache returns a cache holding at most size corpora.
func NewCache(p Provider, size int) (*Cache, error) {
	if size <= 0 {
		size = 8
	}
	c, err := lru.New[Key, *Corpus](size)
	if err != nil {
		return nil, err
	}
	return &Cache{provider: p, corpora: c}, nil
}

// Get returns the corpus for (length, locale), building it on first use.
func (c *Cache) Get(length int, locale string) (*Corpus, error) {
	key := Key{Length: length, Locale: locale}
	if corpus, ok := c.corpora.Get(key); ok {
		return corpus, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		if corpus, ok := c.corpora.Get(key); ok {
			return corpus, nil
		}
		list, err := c.provider.Words(locale)
		if err != nil {
			return nil, err
		}
		corpus, err := NewCorpus(length, locale, list)
		if err != nil {
			return nil, err
		}
		c.corpora.Add(key, corpus)
		log.Debug().Str("corpus", key.String()).Int("words", corpus.Len()).Msg("corpus built")
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Corpus), nil
}

// Len reports how many corpora are cached.
func (c *Cache) Len() int { return c.corpora.Len() }
