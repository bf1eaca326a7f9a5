// internal/game/engine.go
//
// Game engine for a single session.
// Responsibilities:
//   - Create games with a fixed secret (explicit or drawn from the corpus).
//   - Validate guesses (length, vocabulary) and classify them with a Rule.
//   - Derive the state lazily from the guesses: playing → won/lost.
//
// Notes:
//   - The corpus is shared and read-only; the guess history is owned by the Game.
//   - A Game is not safe for concurrent use.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"unicode/utf8"

	"github.com/cthoyt/pyrdle/internal/words"
)

// Default dimensions of the canonical game.
const (
	DefaultHeight = 6
	DefaultLength = 5
)

var (
	// ErrInvalidLength: the word does not have the configured length.
	ErrInvalidLength = errors.New("invalid length")
	// ErrNotInVocabulary: the word is not part of the corpus.
	ErrNotInVocabulary = errors.New("not in vocabulary")
	// ErrGameOver: the game is already won or lost.
	ErrGameOver = errors.New("game over")
)

// Game holds the state of a single game.
type Game struct {
	ID       string // random hex identifier
	corpus   *words.Corpus
	rule     Rule
	secret   string
	height   int
	guesses  []string
	feedback []Feedback
}

// Option configures New.
type Option func(*options)

type options struct {
	secret string
	rule   Rule
	rng    *mrand.Rand
}

// WithSecret fixes the secret word instead of drawing one.
func WithSecret(w string) Option { return func(o *options) { o.secret = w } }

// WithRule selects the feedback rule. The default is Classify.
func WithRule(r Rule) Option { return func(o *options) { o.rule = r } }

// WithRand sets the source used to draw a random secret.
func WithRand(r *mrand.Rand) Option { return func(o *options) { o.rng = r } }

// New constructs a game over corpus allowing height guesses.
func New(corpus *words.Corpus, height int, opts ...Option) (*Game, error) {
	if height <= 0 {
		return nil, fmt.Errorf("game: invalid height %d", height)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rule == nil {
		o.rule = Classify
	}
	secret := o.secret
	if secret == "" {
		secret = corpus.Choice(o.rng)
	} else if err := validate(corpus, secret); err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	return &Game{
		ID:     randomID(),
		corpus: corpus,
		rule:   o.rule,
		secret: secret,
		height: height,
	}, nil
}

// AppendGuess validates word, records it and returns its feedback.
func (g *Game) AppendGuess(word string) (Feedback, error) {
	if g.State().Terminal() {
		return nil, ErrGameOver
	}
	if err := validate(g.corpus, word); err != nil {
		return nil, err
	}
	fb := g.rule(g.secret, word)
	g.guesses = append(g.guesses, word)
	g.feedback = append(g.feedback, fb)
	return fb, nil
}

// State reports Won if the last guess is the secret, Lost once the guesses
// are used up, and InProgress otherwise. A correct final guess wins.
func (g *Game) State() State {
	if n := len(g.guesses); n > 0 && g.guesses[n-1] == g.secret {
		return Won
	}
	if len(g.guesses) >= g.height {
		return Lost
	}
	return InProgress
}

// History returns a copy of the guesses and feedback so far.
func (g *Game) History() History {
	h := History{
		Guesses:  make([]string, len(g.guesses)),
		Feedback: make([]Feedback, len(g.feedback)),
	}
	copy(h.Guesses, g.guesses)
	for i, fb := range g.feedback {
		h.Feedback[i] = append(Feedback(nil), fb...)
	}
	return h
}

// Guesses returns a copy of the guesses so far.
func (g *Game) Guesses() []string { return append([]string(nil), g.guesses...) }

// Secret is the word to find.
func (g *Game) Secret() string { return g.secret }

// Height is the maximum number of guesses.
func (g *Game) Height() int { return g.height }

// Length is the number of characters per word.
func (g *Game) Length() int { return g.corpus.Length() }

// Locale of the underlying corpus.
func (g *Game) Locale() string { return g.corpus.Locale() }

// validate checks length first, then vocabulary membership.
func validate(corpus *words.Corpus, w string) error {
	if n := utf8.RuneCountInString(w); n != corpus.Length() {
		return fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidLength, w, n, corpus.Length())
	}
	if !corpus.Contains(w) {
		return fmt.Errorf("%w: %q", ErrNotInVocabulary, w)
	}
	return nil
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
