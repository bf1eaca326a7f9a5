package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/exclusivity"
	"github.com/cthoyt/pyrdle/internal/player"
	"github.com/cthoyt/pyrdle/internal/progress"
	"github.com/cthoyt/pyrdle/internal/scoring"
)

// Opening is one row of an opening search.
type Opening struct {
	Words     exclusivity.Tuple `json:"words"`
	Score     float64           `json:"score"`
	Success   float64           `json:"success"`
	Speed     float64           `json:"speed"`
	Histogram Histogram         `json:"histogram"`
}

// SearchOpenings ranks the exclusive k-tuples of the corpus, keeps the n
// best and sweeps the corpus with a player of the given kind opening with
// each tuple. Rows keep the ranking order. Once the ranking is known the
// progress total is resized to one unit per simulated game.
func (c *Controller) SearchOpenings(ctx context.Context, k, n int, kind player.Kind) ([]Opening, error) {
	start := time.Now()
	ranked, err := scoring.Top(ctx, c.corpus, k, n, exclusivity.Options{Workers: c.workers})
	if err != nil {
		return nil, err
	}
	progress.Resize(c.progress, len(ranked)*c.corpus.Len())
	rows := make([]Opening, 0, len(ranked))
	for _, r := range ranked {
		h, err := c.Sweep(ctx, player.Spec{Kind: string(kind), Initial: r.Words})
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", r.Words, err)
		}
		rows = append(rows, Opening{
			Words:     r.Words,
			Score:     r.Score,
			Success:   h.SuccessRate(),
			Speed:     h.Speed(),
			Histogram: h,
		})
	}
	log.Debug().
		Int("k", k).
		Int("openings", len(rows)).
		Dur("took", time.Since(start)).
		Msg("opening search finished")
	return rows, nil
}
