// internal/httpserver/server.go
//
// HTTP server wiring for the game and simulation API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, POST /game/guess.
//   - Daily statistics: GET /daily/stats.
//   - Search endpoints: GET /openings, GET /runs, GET /runs/{id};
//     POST /simulate and POST /search require a bearer token.
//
// Notes:
//   - Games and their daily metadata live in the session store only; finished
//     daily games are recorded in SQLite when a daily store is configured.
//   - Simulation routes run under a longer timeout than game routes.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/daily"
	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/results"
	"github.com/cthoyt/pyrdle/internal/sim"
	"github.com/cthoyt/pyrdle/internal/store"
	"github.com/cthoyt/pyrdle/internal/words"
)

// Options carries the server's dependencies. Daily and Runs may be nil,
// which disables the routes backed by them.
type Options struct {
	Corpus       *words.Corpus
	Height       int
	Rule         game.Rule
	Games        store.Store
	Daily        *daily.Store
	Runs         *results.Store
	Sim          *sim.Controller
	DailySalt    string
	JWTSecret    string
	ClientOrigin string
	// SimTimeout bounds /simulate and /search (default 2m).
	SimTimeout time.Duration
	// Now is the clock for daily secrets (default time.Now).
	Now func() time.Time
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Height <= 0 {
		opts.Height = game.DefaultHeight
	}
	if opts.Rule == nil {
		opts.Rule = game.Classify
	}
	if opts.SimTimeout <= 0 {
		opts.SimTimeout = 2 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sim == nil {
		opts.Sim = sim.New(opts.Corpus, opts.Height, sim.WithRule(opts.Rule))
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"pyrdle","endpoints":["/health","POST /game/new","POST /game/guess","/daily/stats","/openings","/runs","POST /simulate","POST /search"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/daily/stats", s.handleDailyStats)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.SimTimeout))
		r.Get("/openings", s.handleOpenings)
		r.With(s.requireAuth()).Post("/simulate", s.handleSimulate)
		r.With(s.requireAuth()).Post("/search", s.handleSearch)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin; empty means http://localhost:5173.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("requestId", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// writeError writes {"error":code} with status.
func writeError(w http.ResponseWriter, code string, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
