// internal/httpserver/routes_game.go
//
// Single-player game endpoints.
//   - POST /game/new   → start a random or daily game
//   - POST /game/guess → submit a guess, receive its feedback
//   - GET  /daily/stats → guess distribution of a date's daily games

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/daily"
	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/store"
)

type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (default) | "daily"
	Secret string `json:"secret"` // optional fixed secret (random mode only)
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Mode   string `json:"mode"`
	Length int    `json:"length"`
	Height int    `json:"height"`
	Date   string `json:"date,omitempty"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body starts a random game
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = "random"
	}

	opts := []game.Option{game.WithRule(s.opts.Rule)}
	var meta *store.Daily
	switch req.Mode {
	case "random":
		if req.Secret != "" {
			opts = append(opts, game.WithSecret(strings.ToLower(strings.TrimSpace(req.Secret))))
		}
	case "daily":
		now := s.opts.Now()
		secret, idx := daily.Secret(s.opts.Corpus, now, s.opts.DailySalt)
		opts = append(opts, game.WithSecret(secret))
		meta = &store.Daily{Date: daily.DateKey(now), Index: idx}
	default:
		writeError(w, "bad_mode", http.StatusBadRequest)
		return
	}

	g, err := game.New(s.opts.Corpus, s.opts.Height, opts...)
	if err != nil {
		writeError(w, guessErrorCode(err), http.StatusBadRequest)
		return
	}
	if err := s.opts.Games.Save(r.Context(), &store.Session{Game: g, Daily: meta}); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, "save_failed", http.StatusInternalServerError)
		return
	}

	res := newGameRes{GameID: g.ID, Mode: req.Mode, Length: g.Length(), Height: g.Height()}
	if meta != nil {
		res.Date = meta.Date
	}
	_ = json.NewEncoder(w).Encode(res)
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Feedback game.Feedback `json:"feedback"`
	State    game.State    `json:"state"` // "playing" | "won" | "lost"
	Guesses  int           `json:"guesses"`
	Secret   string        `json:"secret,omitempty"` // revealed once lost
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	sess, unlock, err := s.opts.Games.Get(r.Context(), req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, "not_found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "store_failed", http.StatusInternalServerError)
		return
	}
	defer unlock()
	g := sess.Game

	fb, err := g.AppendGuess(strings.ToLower(strings.TrimSpace(req.Guess)))
	if err != nil {
		writeError(w, guessErrorCode(err), http.StatusBadRequest)
		return
	}
	state := g.State()
	res := guessRes{Feedback: fb, State: state, Guesses: len(g.Guesses())}
	if state == game.Lost {
		res.Secret = g.Secret()
	}
	if state.Terminal() && sess.Daily != nil {
		s.recordDaily(r, g, *sess.Daily)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// recordDaily stores a finished daily game (best effort).
func (s *Server) recordDaily(r *http.Request, g *game.Game, meta store.Daily) {
	if s.opts.Daily == nil {
		return
	}
	err := s.opts.Daily.InsertResult(r.Context(), daily.Result{
		GameID:    g.ID,
		Date:      meta.Date,
		Locale:    g.Locale(),
		WordIndex: meta.Index,
		Guesses:   len(g.Guesses()),
		Won:       g.State() == game.Won,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record daily result")
	}
}

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.Daily == nil {
		writeError(w, "daily_disabled", http.StatusServiceUnavailable)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, "bad_date", http.StatusBadRequest)
		return
	}
	st, err := s.opts.Daily.Stats(r.Context(), date, s.opts.Corpus.Locale())
	if err != nil {
		log.Error().Err(err).Msg("daily stats")
		writeError(w, "db_error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// guessErrorCode maps engine validation errors to API error codes.
func guessErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, game.ErrNotInVocabulary):
		return "not_in_vocabulary"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	}
	return "bad_request"
}
