package exclusivity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cthoyt/pyrdle/internal/progress"
	"github.com/cthoyt/pyrdle/internal/words"
)

// ErrInvalidWidth is returned for a tuple width below one.
var ErrInvalidWidth = errors.New("exclusivity: tuple width must be at least 1")

// Tuple is an ordered sequence of words.
type Tuple []string

func (t Tuple) String() string { return strings.Join(t, ",") }

// Entry maps a key tuple to the words that may follow it.
type Entry struct {
	Key    Tuple
	Values []string
}

// Index is an ordered list of entries. All keys have the same length.
type Index struct {
	width   int // tuple width: len(key) + 1
	entries []Entry
	sets    charSets
}

// Options tunes the parallel loops.
type Options struct {
	// Workers bounds concurrent shards; <= 0 means runtime.NumCPU().
	Workers int
	// Progress receives one unit per processed shard (a first word when
	// building, an entry when deepening).
	Progress progress.Reporter
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Width is the length of the tuples the index unwinds to.
func (ix *Index) Width() int { return ix.width }

// Len is the number of keys.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns the entries in deterministic order.
// The slice is shared; callers must not modify it.
func (ix *Index) Entries() []Entry { return ix.entries }

// Size is the number of tuples the index unwinds to.
func (ix *Index) Size() int {
	n := 0
	for _, e := range ix.entries {
		n += len(e.Values)
	}
	return n
}

// Tuples unwinds every key/value pair into a flat tuple.
func (ix *Index) Tuples() []Tuple {
	out := make([]Tuple, 0, ix.Size())
	for _, e := range ix.entries {
		for _, v := range e.Values {
			t := make(Tuple, 0, len(e.Key)+1)
			t = append(t, e.Key...)
			out = append(out, append(t, v))
		}
	}
	return out
}

// BuildPairIndex records, for every pair a < b of corpus words (sorted order)
// that is exclusive, b under the key (a). Work is sharded by first word.
func BuildPairIndex(ctx context.Context, corpus *words.Corpus, opts Options) (*Index, error) {
	start := time.Now()
	ws := corpus.Words()
	sets := newCharSets(corpus)
	rep := progress.Or(opts.Progress)

	slots := make([][]string, len(ws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range ws {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() { _ = rep.Add(1) }()
			a := ws[i]
			if !sets[a].distinct {
				return nil
			}
			var vals []string
			for _, b := range ws[i+1:] {
				if sets.exclusive(a, b) {
					vals = append(vals, b)
				}
			}
			slots[i] = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix := &Index{width: 2, sets: sets}
	for i, vals := range slots {
		if len(vals) > 0 {
			ix.entries = append(ix.entries, Entry{Key: Tuple{ws[i]}, Values: vals})
		}
	}
	log.Debug().
		Int("words", len(ws)).
		Int("keys", ix.Len()).
		Int("pairs", ix.Size()).
		Dur("took", time.Since(start)).
		Msg("pair index built")
	return ix, nil
}

// Deepen extends every key by one word: for each entry (k, V) and every pair
// left < right in V that is exclusive, right is recorded under (k..., left).
func Deepen(ctx context.Context, ix *Index, opts Options) (*Index, error) {
	start := time.Now()
	rep := progress.Or(opts.Progress)

	slots := make([][]Entry, len(ix.entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, e := range ix.entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() { _ = rep.Add(1) }()
			var out []Entry
			for a, left := range e.Values {
				var vals []string
				for _, right := range e.Values[a+1:] {
					if ix.sets.exclusive(left, right) {
						vals = append(vals, right)
					}
				}
				if len(vals) == 0 {
					continue
				}
				key := make(Tuple, 0, len(e.Key)+1)
				key = append(key, e.Key...)
				out = append(out, Entry{Key: append(key, left), Values: vals})
			}
			slots[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := &Index{width: ix.width + 1, sets: ix.sets}
	for _, s := range slots {
		next.entries = append(next.entries, s...)
	}
	log.Debug().
		Int("width", next.width).
		Int("keys", next.Len()).
		Int("tuples", next.Size()).
		Dur("took", time.Since(start)).
		Msg("index deepened")
	return next, nil
}

// Tuples returns the exclusive k-tuples reachable by building the pair index
// and deepening it k-2 times. For k == 1 every corpus word is its own tuple.
func Tuples(ctx context.Context, corpus *words.Corpus, k int, opts Options) ([]Tuple, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, k)
	}
	if k == 1 {
		out := make([]Tuple, corpus.Len())
		for i, w := range corpus.Words() {
			out[i] = Tuple{w}
		}
		return out, nil
	}
	ix, err := BuildPairIndex(ctx, corpus, opts)
	if err != nil {
		return nil, err
	}
	for depth := 0; depth < k-2; depth++ {
		if ix, err = Deepen(ctx, ix, opts); err != nil {
			return nil, err
		}
	}
	return ix.Tuples(), nil
}
