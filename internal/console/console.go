// Package console renders games for the terminal and runs interactive play.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TwiN/go-color"

	"github.com/cthoyt/pyrdle/internal/game"
)

var glyphs = map[game.Call]string{
	game.Correct: "🟩",
	game.Present: "🟨",
	game.Absent:  "⬛",
}

var colors = map[game.Call]string{
	game.Correct: color.Green,
	game.Present: color.Yellow,
	game.Absent:  color.Gray,
}

// Glyph is the square shown for a call.
func Glyph(c game.Call) string { return glyphs[c] }

// Row renders one guess as its squares followed by the word. With colored
// set, each character of the word is tinted by its call.
func Row(word string, fb game.Feedback, colored bool) string {
	var b strings.Builder
	for _, c := range fb {
		b.WriteString(Glyph(c))
	}
	b.WriteByte(' ')
	for i, r := range []rune(word) {
		if colored && i < len(fb) {
			b.WriteString(color.Ize(colors[fb[i]], string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Board writes one Row per guess of h.
func Board(w io.Writer, h game.History, colored bool) error {
	for i, guess := range h.Guesses {
		if _, err := fmt.Fprintln(w, Row(guess, h.Feedback[i], colored)); err != nil {
			return err
		}
	}
	return nil
}

// Summary writes the board and the outcome of a finished game.
func Summary(w io.Writer, g *game.Game, colored bool) error {
	if err := Board(w, g.History(), colored); err != nil {
		return err
	}
	switch g.State() {
	case game.Won:
		_, err := fmt.Fprintf(w, "solved in %d/%d\n", len(g.Guesses()), g.Height())
		return err
	case game.Lost:
		_, err := fmt.Fprintln(w, "Word is", g.Secret())
		return err
	}
	return nil
}

// Play reads guesses line by line from in until g is finished. Guesses of
// the wrong length or outside the vocabulary are reported and re-prompted.
// Running out of input before the end returns io.ErrUnexpectedEOF.
func Play(in io.Reader, out io.Writer, g *game.Game, colored bool) (game.State, error) {
	sc := bufio.NewScanner(in)
	for !g.State().Terminal() {
		fmt.Fprintf(out, "\nplaying round %d\n> ", len(g.Guesses())+1)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return g.State(), err
			}
			return g.State(), io.ErrUnexpectedEOF
		}
		word := strings.ToLower(strings.TrimSpace(sc.Text()))
		if _, err := g.AppendGuess(word); err != nil {
			if errors.Is(err, game.ErrInvalidLength) || errors.Is(err, game.ErrNotInVocabulary) {
				fmt.Fprintln(out, err)
				continue
			}
			return g.State(), err
		}
		if err := Board(out, g.History(), colored); err != nil {
			return g.State(), err
		}
	}
	if g.State() == game.Lost {
		fmt.Fprintln(out, "Word is", g.Secret())
	}
	return g.State(), nil
}
