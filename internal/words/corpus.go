// internal/words/corpus.go
//
// Fixed-length vocabulary with letter-frequency statistics.
// Responsibilities:
//   - Keep the sorted, deduplicated set of words of one length for one locale.
//   - Count every character across all words and normalize the counts.
//   - Answer membership queries and draw uniformly random words.
//
// A Corpus is immutable once built and is shared by every other component,
// including concurrent simulation workers.

package words

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"unicode/utf8"
)

// ErrEmptyCorpus is returned when no word of the requested length survives.
var ErrEmptyCorpus = errors.New("words: corpus is empty")

// Corpus is a fixed-length word set plus per-character frequency tables.
type Corpus struct {
	length     int
	locale     string
	words      []string            // sorted
	set        map[string]struct{} // membership
	frequency  map[rune]int
	normalized map[rune]float64
	alphabet   []rune // sorted distinct characters
}

// NewCorpus builds a corpus from words, keeping only entries that are
// exactly length runes long. Duplicates are dropped.
func NewCorpus(length int, locale string, list []string) (*Corpus, error) {
	if length <= 0 {
		return nil, fmt.Errorf("words: invalid length %d", length)
	}
	c := &Corpus{
		length:     length,
		locale:     locale,
		set:        make(map[string]struct{}, len(list)),
		frequency:  make(map[rune]int),
		normalized: make(map[rune]float64),
	}
	for _, w := range list {
		if utf8.RuneCountInString(w) != length {
			continue
		}
		if _, dup := c.set[w]; dup {
			continue
		}
		c.set[w] = struct{}{}
		c.words = append(c.words, w)
	}
	if len(c.words) == 0 {
		return nil, fmt.Errorf("%w: no %d-letter words for locale %q", ErrEmptyCorpus, length, locale)
	}
	sort.Strings(c.words)

	total := 0
	for _, w := range c.words {
		for _, r := range w {
			c.frequency[r]++
			total++
		}
	}
	for r, n := range c.frequency {
		c.normalized[r] = float64(n) / float64(total)
		c.alphabet = append(c.alphabet, r)
	}
	sort.Slice(c.alphabet, func(i, j int) bool { return c.alphabet[i] < c.alphabet[j] })
	return c, nil
}

// Length is the number of characters in every word.
func (c *Corpus) Length() int { return c.length }

// Locale is the locale the words were drawn from.
func (c *Corpus) Locale() string { return c.locale }

// Len reports the number of words.
func (c *Corpus) Len() int { return len(c.words) }

// Words returns the words in lexicographic order.
// The slice is shared; callers must not modify it.
func (c *Corpus) Words() []string { return c.words }

// Contains reports whether w is in the corpus.
func (c *Corpus) Contains(w string) bool {
	_, ok := c.set[w]
	return ok
}

// Frequency returns how many times r occurs across all words.
func (c *Corpus) Frequency(r rune) int { return c.frequency[r] }

// NormalizedFrequency returns Frequency(r) divided by the total number of
// characters in the corpus. Unknown characters score 0.
func (c *Corpus) NormalizedFrequency(r rune) float64 { return c.normalized[r] }

// Alphabet returns the distinct characters used by the corpus, sorted.
// The slice is shared; callers must not modify it.
func (c *Corpus) Alphabet() []rune { return c.alphabet }

// Choice returns a uniformly random word. A nil rng uses the global source.
func (c *Corpus) Choice(rng *rand.Rand) string {
	if rng == nil {
		return c.words[rand.IntN(len(c.words))]
	}
	return c.words[rng.IntN(len(c.words))]
}
