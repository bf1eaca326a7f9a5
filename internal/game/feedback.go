// internal/game/feedback.go
//
// Feedback rules.
//
// Classify is the default rule: every character is judged on its own, so a
// repeated guess letter that occurs once in the secret can be called Present
// twice. ClassifyCanonical is the two-pass rule of the canonical game, kept as
// an opt-in.

package game

// Rule classifies guess against secret. Both have the same rune length.
type Rule func(secret, guess string) Feedback

// Classify marks position i Correct if guess[i] == secret[i], Present if
// guess[i] occurs anywhere in secret, and Absent otherwise.
func Classify(secret, guess string) Feedback {
	s, g := []rune(secret), []rune(guess)
	in := make(map[rune]struct{}, len(s))
	for _, r := range s {
		in[r] = struct{}{}
	}
	out := make(Feedback, len(g))
	for i, r := range g {
		if i < len(s) && s[i] == r {
			out[i] = Correct
		} else if _, ok := in[r]; ok {
			out[i] = Present
		} else {
			out[i] = Absent
		}
	}
	return out
}

// ClassifyCanonical implements the standard two-pass scoring.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count the remaining (unmatched) secret letters.
//
// Pass 2:
//   - For each unmatched guess letter: if a count remains, mark Present and
//     decrement it; otherwise mark Absent.
func ClassifyCanonical(secret, guess string) Feedback {
	s, g := []rune(secret), []rune(guess)
	out := make(Feedback, len(g))
	counts := make(map[rune]int, len(s))

	for i := range g {
		if i < len(s) && g[i] == s[i] {
			out[i] = Correct
		} else if i < len(s) {
			counts[s[i]]++
		}
	}
	for i, r := range g {
		if out[i] == Correct {
			continue
		}
		if counts[r] > 0 {
			out[i] = Present
			counts[r]--
		} else {
			out[i] = Absent
		}
	}
	return out
}

// RuleByName maps a configuration value to a Rule.
// "" and "simple" select Classify; "canonical" selects ClassifyCanonical.
func RuleByName(name string) (Rule, bool) {
	switch name {
	case "", "simple":
		return Classify, true
	case "canonical":
		return ClassifyCanonical, true
	}
	return nil, false
}
