// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Call: per-character result of a guess (correct/present/absent).
//   - Feedback: the calls for one guess, aligned with its characters.
//   - State: playing/won/lost.
//   - History: the guesses of one game and their feedback.

package game

import "fmt"

// Call is the evaluation of a single character of a guess.
type Call int8

const (
	// Absent: the character does not occur in the secret.
	Absent Call = iota
	// Present: the character occurs in the secret at another position.
	Present
	// Correct: the character matches the secret at this position.
	Correct
)

func (c Call) String() string {
	switch c {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Correct:
		return "correct"
	}
	return fmt.Sprintf("Call(%d)", int8(c))
}

// MarshalText encodes the call by name, so JSON payloads read "correct"
// rather than 2.
func (c Call) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText parses a call name.
func (c *Call) UnmarshalText(b []byte) error {
	switch string(b) {
	case "absent":
		*c = Absent
	case "present":
		*c = Present
	case "correct":
		*c = Correct
	default:
		return fmt.Errorf("game: unknown call %q", b)
	}
	return nil
}

// Feedback holds one Call per character of a guess.
type Feedback []Call

// Solved reports whether every call is Correct.
func (f Feedback) Solved() bool {
	for _, c := range f {
		if c != Correct {
			return false
		}
	}
	return len(f) > 0
}

// Count returns how many calls equal c.
func (f Feedback) Count(c Call) int {
	n := 0
	for _, x := range f {
		if x == c {
			n++
		}
	}
	return n
}

// State is the coarse state of a game.
type State int8

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "playing"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether no more guesses are accepted.
func (s State) Terminal() bool { return s != InProgress }

// History is the zipped record of guesses and their feedback.
// Feedback[i] always belongs to Guesses[i].
type History struct {
	Guesses  []string
	Feedback []Feedback
}

// Len is the number of guesses made.
func (h History) Len() int { return len(h.Guesses) }
