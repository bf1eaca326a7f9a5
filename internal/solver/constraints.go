// Package solver turns a game history into letter constraints and filters a
// corpus down to the words still consistent with them.
package solver

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cthoyt/pyrdle/internal/game"
)

// Constraints is the knowledge accumulated over a game.
//
// Positions only records Correct calls. MustContain holds every character
// called Correct or Present. MustNotContain holds characters called Absent
// that are not in MustContain: absence is judged per guess, a letter that was
// confirmed elsewhere is never excluded.
type Constraints struct {
	Positions      map[int]rune
	MustContain    map[rune]struct{}
	MustNotContain map[rune]struct{}
}

// Derive folds the whole history into a fresh Constraints.
func Derive(h game.History) Constraints {
	c := Constraints{
		Positions:      make(map[int]rune),
		MustContain:    make(map[rune]struct{}),
		MustNotContain: make(map[rune]struct{}),
	}
	absent := make(map[rune]struct{})
	for i, guess := range h.Guesses {
		if i >= len(h.Feedback) {
			break
		}
		fb := h.Feedback[i]
		for j, r := range []rune(guess) {
			if j >= len(fb) {
				break
			}
			switch fb[j] {
			case game.Correct:
				c.Positions[j] = r
				c.MustContain[r] = struct{}{}
			case game.Present:
				c.MustContain[r] = struct{}{}
			case game.Absent:
				absent[r] = struct{}{}
			}
		}
	}
	for r := range absent {
		if _, ok := c.MustContain[r]; !ok {
			c.MustNotContain[r] = struct{}{}
		}
	}
	return c
}

// Allows reports whether word satisfies every constraint.
func (c Constraints) Allows(word string) bool {
	runes := []rune(word)
	for i, r := range c.Positions {
		if i >= len(runes) || runes[i] != r {
			return false
		}
	}
	for r := range c.MustContain {
		if !containsRune(runes, r) {
			return false
		}
	}
	for r := range c.MustNotContain {
		if containsRune(runes, r) {
			return false
		}
	}
	return true
}

// Empty reports whether nothing is known yet.
func (c Constraints) Empty() bool {
	return len(c.Positions) == 0 && len(c.MustContain) == 0 && len(c.MustNotContain) == 0
}

// Key is a canonical encoding: equal constraints produce equal keys.
func (c Constraints) Key() string {
	idx := make([]int, 0, len(c.Positions))
	for i := range c.Positions {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var b strings.Builder
	for _, i := range idx {
		b.WriteString(strconv.Itoa(i))
		b.WriteRune(c.Positions[i])
	}
	b.WriteByte('|')
	b.WriteString(sortedRunes(c.MustContain))
	b.WriteByte('|')
	b.WriteString(sortedRunes(c.MustNotContain))
	return b.String()
}

func sortedRunes(set map[rune]struct{}) string {
	rs := make([]rune, 0, len(set))
	for r := range set {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}

func containsRune(rs []rune, r rune) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
