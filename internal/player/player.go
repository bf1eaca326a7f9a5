// internal/player/player.go
//
// Guessing strategies.
// Variants:
//   - Random: a uniformly random corpus word each turn.
//   - Greedy: a fixed list of opening words, then the first word (sorted
//     order) consistent with everything learned so far.
//   - Cached: Greedy with candidate lists memoized per sweep.
//
// A Player is stateful (it tracks its position in the opening list) and is
// used for exactly one game.

package player

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"unicode/utf8"

	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/solver"
	"github.com/cthoyt/pyrdle/internal/words"
)

// ErrLengthMismatch: an opening word does not have the corpus length.
var ErrLengthMismatch = errors.New("player: initial word has the wrong length")

// Player decides the next guess from the history of the current game.
type Player interface {
	Guess(h game.History) (string, error)
}

// Random ignores the history.
type Random struct {
	corpus *words.Corpus
	rng    *rand.Rand
}

// NewRandom returns a random player. A nil rng uses the global source.
func NewRandom(corpus *words.Corpus, rng *rand.Rand) *Random {
	return &Random{corpus: corpus, rng: rng}
}

// Guess implements Player.
func (p *Random) Guess(game.History) (string, error) {
	return p.corpus.Choice(p.rng), nil
}

// candidateSource lists the corpus words allowed by c in sorted order,
// without excluding previous guesses.
type candidateSource func(c solver.Constraints) []string

// Greedy plays its opening words in order, then eliminates.
type Greedy struct {
	corpus     *words.Corpus
	initial    []string
	n          int
	candidates candidateSource
	cache      *FilterCache // nil unless built by NewCached
}

// NewGreedy validates that every opening word has the corpus length.
func NewGreedy(corpus *words.Corpus, initial []string) (*Greedy, error) {
	for _, w := range initial {
		if utf8.RuneCountInString(w) != corpus.Length() {
			return nil, fmt.Errorf("%w: %q is not %d characters", ErrLengthMismatch, w, corpus.Length())
		}
	}
	return &Greedy{
		corpus:  corpus,
		initial: append([]string(nil), initial...),
	}, nil
}

// NewCached is NewGreedy with candidate lists memoized in cache.
func NewCached(corpus *words.Corpus, initial []string, cache *FilterCache) (*Greedy, error) {
	g, err := NewGreedy(corpus, initial)
	if err != nil {
		return nil, err
	}
	g.cache = cache
	g.candidates = cache.source(corpus)
	return g, nil
}

// Guess implements Player.
func (p *Greedy) Guess(h game.History) (string, error) {
	if p.n < len(p.initial) {
		w := p.initial[p.n]
		p.n++
		return w, nil
	}
	c := solver.Derive(h)
	if p.candidates == nil {
		return solver.First(p.corpus, c, h.Guesses)
	}
	return solver.FirstOf(p.candidates(c), h.Guesses)
}

// Initial returns the opening words.
func (p *Greedy) Initial() []string { return append([]string(nil), p.initial...) }
