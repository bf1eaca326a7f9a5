// internal/sim/controller.go
//
// Simulation controller.
// Responsibilities:
//   - Drive one game with a player until it is won, lost or the player runs
//     out of candidates.
//   - Sweep every corpus word as the secret and tally the outcomes.
//   - Search opening tuples: rank them by score and simulate the best.
//
// Notes:
//   - Sweeps run on an errgroup worker pool. Each game writes only its own
//     outcome slot, so the histogram does not depend on scheduling.
//   - A guess the engine rejects is a broken player, not a lost game; it
//     aborts the sweep with ErrContractViolation.

package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/player"
	"github.com/cthoyt/pyrdle/internal/progress"
	"github.com/cthoyt/pyrdle/internal/solver"
	"github.com/cthoyt/pyrdle/internal/words"
)

// ErrContractViolation: a player produced a guess the engine rejected.
var ErrContractViolation = errors.New("sim: player produced an invalid guess")

// Controller runs games over one corpus.
type Controller struct {
	corpus   *words.Corpus
	height   int
	rule     game.Rule
	workers  int
	seed     uint64
	progress progress.Reporter
}

// Option configures a Controller.
type Option func(*Controller)

// WithRule sets the feedback rule (default game.Classify).
func WithRule(r game.Rule) Option {
	return func(c *Controller) {
		if r != nil {
			c.rule = r
		}
	}
}

// WithWorkers bounds concurrent games; n <= 0 means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress receives one unit per finished game.
func WithProgress(r progress.Reporter) Option {
	return func(c *Controller) { c.progress = progress.Or(r) }
}

// WithSeed seeds random players created by SearchOpenings and Sweep.
func WithSeed(seed uint64) Option { return func(c *Controller) { c.seed = seed } }

// New returns a controller; height <= 0 uses game.DefaultHeight.
func New(corpus *words.Corpus, height int, opts ...Option) *Controller {
	if height <= 0 {
		height = game.DefaultHeight
	}
	c := &Controller{
		corpus:   corpus,
		height:   height,
		rule:     game.Classify,
		workers:  runtime.NumCPU(),
		progress: progress.Nop,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Corpus returns the controller's corpus.
func (c *Controller) Corpus() *words.Corpus { return c.corpus }

// Height is the number of guesses allowed per game.
func (c *Controller) Height() int { return c.height }

// PlayOne plays a game against secret until it is terminal. When the player
// runs out of candidates the partial game is returned with
// solver.ErrExhausted.
func (c *Controller) PlayOne(ctx context.Context, secret string, p player.Player) (*game.Game, error) {
	g, err := game.New(c.corpus, c.height, game.WithSecret(secret), game.WithRule(c.rule))
	if err != nil {
		return nil, err
	}
	for !g.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		w, err := p.Guess(g.History())
		if errors.Is(err, solver.ErrExhausted) {
			return g, err
		}
		if err != nil {
			return g, fmt.Errorf("guess %d: %w", len(g.Guesses())+1, err)
		}
		if _, err := g.AppendGuess(w); err != nil {
			return g, fmt.Errorf("%w: %q: %w", ErrContractViolation, w, err)
		}
	}
	return g, nil
}

// PlayAll plays one game per corpus word, each with a fresh player from
// factory, and tallies the outcomes. Lost and exhausted games count as
// failures. Any other error, or cancellation, discards the sweep.
func (c *Controller) PlayAll(ctx context.Context, factory player.Factory) (Histogram, error) {
	start := time.Now()
	secrets := c.corpus.Words()
	// 0 marks a failure, otherwise the number of guesses of a win
	outcomes := make([]int, len(secrets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, secret := range secrets {
		if gctx.Err() != nil {
			break
		}
		// players are created in secret order so seeded streams line up
		// with secrets regardless of scheduling
		p, err := factory()
		if err != nil {
			_ = g.Wait()
			return Histogram{}, err
		}
		g.Go(func() error {
			played, err := c.PlayOne(gctx, secret, p)
			switch {
			case errors.Is(err, solver.ErrExhausted):
			case err != nil:
				return fmt.Errorf("secret %q: %w", secret, err)
			case played.State() == game.Won:
				outcomes[i] = len(played.Guesses())
			}
			_ = c.progress.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Histogram{}, err
	}
	if err := ctx.Err(); err != nil {
		return Histogram{}, err
	}

	h := newHistogram()
	for _, n := range outcomes {
		if n > 0 {
			h.addWin(n)
		} else {
			h.addFailure()
		}
	}
	log.Debug().
		Int("games", h.Total).
		Int("won", h.Won()).
		Dur("took", time.Since(start)).
		Msg("sweep finished")
	return h, nil
}

// Sweep resolves spec and runs PlayAll with it.
func (c *Controller) Sweep(ctx context.Context, spec player.Spec) (Histogram, error) {
	f, err := player.NewFactory(c.corpus, spec, c.seed)
	if err != nil {
		return Histogram{}, err
	}
	return c.PlayAll(ctx, f)
}
