package player

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/cthoyt/pyrdle/internal/words"
)

// ErrUnknownKind is returned by Lookup for an unregistered player name.
var ErrUnknownKind = errors.New("player: unknown kind")

// Kind names a strategy.
type Kind string

const (
	KindRandom Kind = "random"
	KindGreedy Kind = "greedy"
	KindCached Kind = "cached"
)

// Kinds lists the registered strategies.
var Kinds = []Kind{KindRandom, KindGreedy, KindCached}

// Lookup resolves a strategy name, ignoring case and a "Player"/"Guesser"
// suffix ("GreedyInitialGuesser" resolves to greedy).
func Lookup(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "player")
	n = strings.TrimSuffix(n, "guesser")
	n = strings.TrimSuffix(n, "initial")
	switch {
	case n == "random":
		return KindRandom, nil
	case n == "greedy":
		return KindGreedy, nil
	case n == "cached" || n == "cachedgreedy":
		return KindCached, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Spec describes a player to construct.
type Spec struct {
	Kind    string   `json:"player"`
	Initial []string `json:"initial,omitempty"`
}

func (s Spec) String() string {
	if len(s.Initial) == 0 {
		return s.Kind
	}
	return s.Kind + "(" + strings.Join(s.Initial, ",") + ")"
}

// Factory creates a fresh player for one game.
type Factory func() (Player, error)

// NewFactory resolves spec into a Factory over corpus. Random players draw
// from independent streams derived from seed. For the cached kind a new
// FilterCache is created here, so each factory (one sweep) has its own.
func NewFactory(corpus *words.Corpus, spec Spec, seed uint64) (Factory, error) {
	kind, err := Lookup(spec.Kind)
	if err != nil {
		return nil, err
	}
	// fail on bad openings now rather than once per game
	if _, err := NewGreedy(corpus, spec.Initial); err != nil {
		return nil, err
	}
	switch kind {
	case KindRandom:
		var stream atomic.Uint64
		return func() (Player, error) {
			return NewRandom(corpus, rand.New(rand.NewPCG(seed, stream.Add(1)))), nil
		}, nil
	case KindGreedy:
		return func() (Player, error) { return NewGreedy(corpus, spec.Initial) }, nil
	default:
		cache, err := NewFilterCache(0)
		if err != nil {
			return nil, err
		}
		return func() (Player, error) { return NewCached(corpus, spec.Initial, cache) }, nil
	}
}
