package game

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/pyrdle/internal/words"
)

func testCorpus(t *testing.T, list ...string) *words.Corpus {
	t.Helper()
	c, err := words.NewCorpus(5, "en", list)
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		secret, guess string
		expected      Feedback
	}{
		{"abcde", "abcde", Feedback{Correct, Correct, Correct, Correct, Correct}},
		{"crane", "trace", Feedback{Absent, Correct, Correct, Present, Correct}},
		{"abcde", "fghij", Feedback{Absent, Absent, Absent, Absent, Absent}},
		{"abcde", "eabcd", Feedback{Present, Present, Present, Present, Present}},
		// per-character rule: both e's are judged independently
		{"crane", "geese", Feedback{Absent, Present, Present, Absent, Correct}},
		{"rüböl", "böl", Feedback{Present, Present, Present}},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Classify(tc.secret, tc.guess), "%s/%s", tc.secret, tc.guess)
	}
}

func TestClassifyCanonical(t *testing.T) {
	testCases := []struct {
		secret, guess string
		expected      Feedback
	}{
		{"crane", "trace", Feedback{Absent, Correct, Correct, Present, Correct}},
		{"crane", "geese", Feedback{Absent, Absent, Absent, Absent, Correct}},
		{"abbey", "babes", Feedback{Present, Present, Correct, Correct, Absent}},
		{"eerie", "ember", Feedback{Correct, Absent, Absent, Present, Present}},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyCanonical(tc.secret, tc.guess), "%s/%s", tc.secret, tc.guess)
	}
}

func TestClassify_CorrectIffSamePosition(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	letters := []rune("abcdef")
	word := func() string {
		r := make([]rune, 5)
		for i := range r {
			r[i] = letters[rng.IntN(len(letters))]
		}
		return string(r)
	}
	for i := 0; i < 500; i++ {
		s, g := word(), word()
		fb := Classify(s, g)
		matches := 0
		for j := range fb {
			assert.Equal(t, s[j] == g[j], fb[j] == Correct, "%s/%s at %d", s, g, j)
			if s[j] == g[j] {
				matches++
			}
		}
		assert.Equal(t, matches, fb.Count(Correct))
	}
}

func TestRuleByName(t *testing.T) {
	r, ok := RuleByName("")
	require.True(t, ok)
	assert.Equal(t, Feedback{Absent, Present, Present, Absent, Correct}, r("crane", "geese"))

	r, ok = RuleByName("canonical")
	require.True(t, ok)
	assert.Equal(t, Feedback{Absent, Absent, Absent, Absent, Correct}, r("crane", "geese"))

	_, ok = RuleByName("fuzzy")
	assert.False(t, ok)
}

func TestGame_WinFirstGuess(t *testing.T) {
	c := testCorpus(t, "abcde", "fghij", "klmno")
	g, err := New(c, DefaultHeight, WithSecret("abcde"))
	require.NoError(t, err)
	assert.Equal(t, InProgress, g.State())
	assert.Len(t, g.ID, 16)

	fb, err := g.AppendGuess("abcde")
	require.NoError(t, err)
	assert.True(t, fb.Solved())
	assert.Equal(t, Won, g.State())
	assert.Equal(t, []string{"abcde"}, g.Guesses())
}

func TestGame_Validation(t *testing.T) {
	c := testCorpus(t, "abcde", "fghij", "klmno")
	g, err := New(c, 3, WithSecret("abcde"))
	require.NoError(t, err)

	_, err = g.AppendGuess("abc")
	assert.True(t, errors.Is(err, ErrInvalidLength))
	_, err = g.AppendGuess("zzzzz")
	assert.True(t, errors.Is(err, ErrNotInVocabulary))
	assert.Empty(t, g.Guesses())

	_, err = New(c, 3, WithSecret("abcdef"))
	assert.True(t, errors.Is(err, ErrInvalidLength))
	_, err = New(c, 3, WithSecret("vwxyz"))
	assert.True(t, errors.Is(err, ErrNotInVocabulary))
	_, err = New(c, 0)
	assert.Error(t, err)
}

func TestGame_Lost(t *testing.T) {
	c := testCorpus(t, "abcde", "fghij", "klmno")
	g, err := New(c, 2, WithSecret("abcde"))
	require.NoError(t, err)

	_, err = g.AppendGuess("fghij")
	require.NoError(t, err)
	assert.Equal(t, InProgress, g.State())
	_, err = g.AppendGuess("klmno")
	require.NoError(t, err)
	assert.Equal(t, Lost, g.State())

	_, err = g.AppendGuess("abcde")
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestGame_WinOnLastGuess(t *testing.T) {
	c := testCorpus(t, "abcde", "fghij", "klmno")
	g, err := New(c, 2, WithSecret("abcde"))
	require.NoError(t, err)

	_, err = g.AppendGuess("fghij")
	require.NoError(t, err)
	_, err = g.AppendGuess("abcde")
	require.NoError(t, err)
	assert.Equal(t, Won, g.State())
}

func TestGame_RandomSecretAndRule(t *testing.T) {
	c := testCorpus(t, "crane", "geese", "trace")
	g, err := New(c, 6, WithRand(rand.New(rand.NewPCG(1, 1))), WithRule(ClassifyCanonical))
	require.NoError(t, err)
	assert.True(t, c.Contains(g.Secret()))
	assert.Equal(t, 5, g.Length())
	assert.Equal(t, 6, g.Height())
	assert.Equal(t, "en", g.Locale())
}

func TestGame_HistoryIsCopy(t *testing.T) {
	c := testCorpus(t, "crane", "trace")
	g, err := New(c, 6, WithSecret("crane"))
	require.NoError(t, err)
	_, err = g.AppendGuess("trace")
	require.NoError(t, err)

	h := g.History()
	require.Equal(t, 1, h.Len())
	h.Guesses[0] = "mutated"
	h.Feedback[0][0] = Correct
	assert.Equal(t, "trace", g.History().Guesses[0])
	assert.Equal(t, Absent, g.History().Feedback[0][0])
}

func TestCallJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Feedback Feedback `json:"feedback"`
		State    State    `json:"state"`
	}{Feedback{Correct, Present, Absent}, Won})
	require.NoError(t, err)
	assert.JSONEq(t, `{"feedback":["correct","present","absent"],"state":"won"}`, string(b))

	var fb Feedback
	require.NoError(t, json.Unmarshal([]byte(`["absent","correct"]`), &fb))
	assert.Equal(t, Feedback{Absent, Correct}, fb)
	assert.Error(t, json.Unmarshal([]byte(`["maybe"]`), &fb))
}
