// internal/httpserver/routes_sim.go
//
// Opening search and simulation endpoints.
//   - GET  /openings?k=&n=  → best exclusive k-tuples by score
//   - POST /simulate        → sweep the corpus with one player (auth)
//   - POST /search          → simulate the top openings and archive the run (auth)
//   - GET  /runs, /runs/{id} → archived searches

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/exclusivity"
	"github.com/cthoyt/pyrdle/internal/player"
	"github.com/cthoyt/pyrdle/internal/results"
	"github.com/cthoyt/pyrdle/internal/scoring"
	"github.com/cthoyt/pyrdle/internal/sim"
)

const (
	defaultK = 2
	defaultN = 10
	maxK     = 5
	maxN     = 200
)

// intParam reads an integer query parameter in [1, max], def when absent.
func intParam(r *http.Request, name string, def, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

func (s *Server) handleOpenings(w http.ResponseWriter, r *http.Request) {
	k, ok := intParam(r, "k", defaultK, maxK)
	if !ok {
		writeError(w, "invalid_width", http.StatusBadRequest)
		return
	}
	n, ok := intParam(r, "n", defaultN, maxN)
	if !ok {
		writeError(w, "bad_request", http.StatusBadRequest)
		return
	}
	ranked, err := scoring.Top(r.Context(), s.opts.Corpus, k, n, exclusivity.Options{})
	if err != nil {
		writeSimError(w, err)
		return
	}
	if ranked == nil {
		ranked = []scoring.Ranked{}
	}
	_ = json.NewEncoder(w).Encode(ranked)
}

type simulateRes struct {
	Player    string        `json:"player"`
	Histogram sim.Histogram `json:"histogram"`
	Success   float64       `json:"success"`
	Speed     float64       `json:"speed"`
	Quality   float64       `json:"quality"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var spec player.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	start := time.Now()
	h, err := s.opts.Sim.Sweep(r.Context(), spec)
	if err != nil {
		writeSimError(w, err)
		return
	}
	log.Info().
		Str("subject", Subject(r.Context())).
		Str("player", spec.String()).
		Float64("success", h.SuccessRate()).
		Dur("took", time.Since(start)).
		Msg("simulation finished")
	_ = json.NewEncoder(w).Encode(simulateRes{
		Player:    spec.String(),
		Histogram: h,
		Success:   h.SuccessRate(),
		Speed:     h.Speed(),
		Quality:   h.Quality(s.opts.Sim.Height()),
	})
}

type searchReq struct {
	K      int    `json:"k"`
	N      int    `json:"n"`
	Player string `json:"player"`
}
type searchRes struct {
	RunID int64         `json:"runId,omitempty"`
	Rows  []results.Row `json:"rows"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req := searchReq{K: defaultK, N: defaultN, Player: string(player.KindCached)}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	if req.K < 1 || req.K > maxK {
		writeError(w, "invalid_width", http.StatusBadRequest)
		return
	}
	if req.N < 1 || req.N > maxN {
		writeError(w, "bad_request", http.StatusBadRequest)
		return
	}
	kind, err := player.Lookup(req.Player)
	if err != nil {
		writeSimError(w, err)
		return
	}
	openings, err := s.opts.Sim.SearchOpenings(r.Context(), req.K, req.N, kind)
	if err != nil {
		writeSimError(w, err)
		return
	}
	res := searchRes{Rows: results.FromOpenings(openings)}
	if s.opts.Runs != nil {
		c := s.opts.Sim.Corpus()
		id, err := s.opts.Runs.Save(r.Context(), results.Run{
			Locale: c.Locale(),
			Length: c.Length(),
			Height: s.opts.Sim.Height(),
			K:      req.K,
			N:      req.N,
			Player: string(kind),
			Rows:   res.Rows,
		})
		if err != nil {
			log.Warn().Err(err).Msg("save search run")
		}
		res.RunID = id
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Runs == nil {
		writeError(w, "runs_disabled", http.StatusServiceUnavailable)
		return
	}
	limit, ok := intParam(r, "limit", 20, 100)
	if !ok {
		writeError(w, "bad_request", http.StatusBadRequest)
		return
	}
	runs, err := s.opts.Runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, "db_error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []results.Run{}
	}
	_ = json.NewEncoder(w).Encode(runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.opts.Runs == nil {
		writeError(w, "runs_disabled", http.StatusServiceUnavailable)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "bad_request", http.StatusBadRequest)
		return
	}
	run, err := s.opts.Runs.Get(r.Context(), id)
	if errors.Is(err, results.ErrNotFound) {
		writeError(w, "not_found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "db_error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(run)
}

// writeSimError maps search and simulation errors to API error codes.
func writeSimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, player.ErrUnknownKind):
		writeError(w, "unknown_player", http.StatusBadRequest)
	case errors.Is(err, player.ErrLengthMismatch):
		writeError(w, "invalid_length", http.StatusBadRequest)
	case errors.Is(err, exclusivity.ErrInvalidWidth):
		writeError(w, "invalid_width", http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, "timeout", http.StatusGatewayTimeout)
	default:
		log.Error().Err(err).Msg("simulation failed")
		writeError(w, "simulation_failed", http.StatusInternalServerError)
	}
}
