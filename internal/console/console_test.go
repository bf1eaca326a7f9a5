package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/words"
)

func newGame(t *testing.T, height int, secret string) *game.Game {
	t.Helper()
	c, err := words.NewCorpus(5, "en", []string{"crane", "trace", "lotus", "adieu"})
	require.NoError(t, err)
	g, err := game.New(c, height, game.WithSecret(secret))
	require.NoError(t, err)
	return g
}

func TestRow(t *testing.T) {
	fb := game.Feedback{game.Absent, game.Correct, game.Correct, game.Present, game.Correct}
	assert.Equal(t, "⬛🟩🟩🟨🟩 trace", Row("trace", fb, false))

	colored := Row("trace", fb, true)
	assert.True(t, strings.HasPrefix(colored, "⬛🟩🟩🟨🟩 "))
	assert.Contains(t, colored, "\x1b[")
}

func TestPlay_Win(t *testing.T) {
	g := newGame(t, 6, "crane")
	in := strings.NewReader("crones\nzzzzz\nTRACE\ncrane\n")
	var out bytes.Buffer

	state, err := Play(in, &out, g, false)
	require.NoError(t, err)
	assert.Equal(t, game.Won, state)
	assert.Equal(t, []string{"trace", "crane"}, g.Guesses())
	assert.Contains(t, out.String(), "invalid length")
	assert.Contains(t, out.String(), "not in vocabulary")
	assert.Contains(t, out.String(), "🟩🟩🟩🟩🟩 crane")
}

func TestPlay_LostPrintsSecret(t *testing.T) {
	g := newGame(t, 1, "crane")
	var out bytes.Buffer

	state, err := Play(strings.NewReader("lotus\n"), &out, g, false)
	require.NoError(t, err)
	assert.Equal(t, game.Lost, state)
	assert.Contains(t, out.String(), "Word is crane")
}

func TestPlay_EOF(t *testing.T) {
	g := newGame(t, 6, "crane")
	_, err := Play(strings.NewReader("lotus\n"), io.Discard, g, false)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSummary(t *testing.T) {
	g := newGame(t, 6, "crane")
	_, err := g.AppendGuess("crane")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Summary(&out, g, false))
	assert.Equal(t, "🟩🟩🟩🟩🟩 crane\nsolved in 1/6\n", out.String())
}
