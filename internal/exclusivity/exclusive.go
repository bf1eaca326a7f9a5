// Package exclusivity finds tuples of words that share no characters.
//
// The pair index maps every word to the later words it is exclusive with.
// Deepening extends each key by one word drawn from its own value list. Every
// value of an entry is exclusive with every word of its key, so only pairs of
// values need testing.
package exclusivity

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/cthoyt/pyrdle/internal/words"
)

// Exclusive reports whether the concatenation of words has no repeated
// character: every character count is exactly one.
func Exclusive(words ...string) bool {
	seen := make(map[rune]struct{})
	n := 0
	for _, w := range words {
		for _, r := range w {
			if _, dup := seen[r]; dup {
				return false
			}
			seen[r] = struct{}{}
			n++
		}
	}
	return n > 0
}

// charSet is the set of characters of one word over the corpus alphabet.
type charSet struct {
	mask     *bitset.BitSet
	distinct bool // no character occurs twice
}

// charSets precomputes a charSet for every corpus word so the pair loops
// only intersect bit masks.
type charSets map[string]charSet

func newCharSets(corpus *words.Corpus) charSets {
	alphabet := corpus.Alphabet()
	pos := make(map[rune]uint, len(alphabet))
	for i, r := range alphabet {
		pos[r] = uint(i)
	}
	sets := make(charSets, corpus.Len())
	for _, w := range corpus.Words() {
		mask := bitset.New(uint(len(alphabet)))
		n := uint(0)
		for _, r := range w {
			mask.Set(pos[r])
			n++
		}
		sets[w] = charSet{mask: mask, distinct: mask.Count() == n}
	}
	return sets
}

// exclusive is the bit-mask form of Exclusive for two corpus words.
func (s charSets) exclusive(a, b string) bool {
	x, y := s[a], s[b]
	return x.distinct && y.distinct && x.mask.IntersectionCardinality(y.mask) == 0
}
