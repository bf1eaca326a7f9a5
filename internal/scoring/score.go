// Package scoring ranks word sequences by how much of the corpus letter
// distribution they cover.
package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/exclusivity"
	"github.com/cthoyt/pyrdle/internal/words"
)

// Score sums the normalized corpus frequency of every distinct character
// appearing in words. Higher covers more of the likely letters.
func Score(corpus *words.Corpus, words ...string) float64 {
	seen := make(map[rune]struct{})
	var chars []rune
	for _, w := range words {
		for _, r := range w {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				chars = append(chars, r)
			}
		}
	}
	// fixed summation order keeps scores bit-identical between runs
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	total := 0.0
	for _, r := range chars {
		total += corpus.NormalizedFrequency(r)
	}
	return total
}

// Ranked is a tuple with its score.
type Ranked struct {
	Words exclusivity.Tuple `json:"words"`
	Score float64           `json:"score"`
}

// Top scores every exclusive k-tuple of the corpus and returns the n best,
// highest score first. Ties are broken by the tuple's lexicographic order.
// n <= 0 returns all of them.
func Top(ctx context.Context, corpus *words.Corpus, k, n int, opts exclusivity.Options) ([]Ranked, error) {
	start := time.Now()
	tuples, err := exclusivity.Tuples(ctx, corpus, k, opts)
	if err != nil {
		return nil, err
	}
	ranked := make([]Ranked, len(tuples))
	for i, t := range tuples {
		ranked[i] = Ranked{Words: t, Score: Score(corpus, t...)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return less(ranked[i].Words, ranked[j].Words)
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	log.Debug().
		Int("k", k).
		Int("candidates", len(tuples)).
		Int("kept", len(ranked)).
		Dur("took", time.Since(start)).
		Msg("tuples ranked")
	return ranked, nil
}

func less(a, b exclusivity.Tuple) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
