package solver

import (
	"errors"

	"github.com/cthoyt/pyrdle/internal/words"
)

// ErrExhausted is returned when no word satisfies the constraints.
var ErrExhausted = errors.New("solver: no candidate satisfies the constraints")

// Candidates returns the corpus words allowed by c and not in exclude, in
// lexicographic order.
func Candidates(corpus *words.Corpus, c Constraints, exclude []string) []string {
	skip := toSet(exclude)
	var out []string
	for _, w := range corpus.Words() {
		if _, ok := skip[w]; ok {
			continue
		}
		if c.Allows(w) {
			out = append(out, w)
		}
	}
	return out
}

// First returns the lexicographically first candidate.
func First(corpus *words.Corpus, c Constraints, exclude []string) (string, error) {
	skip := toSet(exclude)
	for _, w := range corpus.Words() {
		if _, ok := skip[w]; ok {
			continue
		}
		if c.Allows(w) {
			return w, nil
		}
	}
	return "", ErrExhausted
}

// FirstOf returns the first word of candidates not in exclude. It is used
// with a precomputed candidate list.
func FirstOf(candidates, exclude []string) (string, error) {
	skip := toSet(exclude)
	for _, w := range candidates {
		if _, ok := skip[w]; !ok {
			return w, nil
		}
	}
	return "", ErrExhausted
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
