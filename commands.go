package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/cthoyt/pyrdle/internal/config"
	"github.com/cthoyt/pyrdle/internal/console"
	"github.com/cthoyt/pyrdle/internal/daily"
	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/httpserver"
	"github.com/cthoyt/pyrdle/internal/player"
	"github.com/cthoyt/pyrdle/internal/progress"
	"github.com/cthoyt/pyrdle/internal/results"
	"github.com/cthoyt/pyrdle/internal/sim"
	"github.com/cthoyt/pyrdle/internal/solver"
	"github.com/cthoyt/pyrdle/internal/store"
)

// listFlag collects a repeatable flag; each value is a comma-separated
// word list ("snake,batch,chart").
type listFlag [][]string

func (l *listFlag) String() string {
	parts := make([]string, len(*l))
	for i, ws := range *l {
		parts[i] = strings.Join(ws, ",")
	}
	return strings.Join(parts, " ")
}

func (l *listFlag) Set(v string) error {
	var ws []string
	for _, w := range strings.Split(v, ",") {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			ws = append(ws, w)
		}
	}
	*l = append(*l, ws)
	return nil
}

// gameFlags binds the flags shared by the game commands onto cfg.
func gameFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.Length, "length", cfg.Length, "word length")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "guesses per game")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "vocabulary locale (en, de)")
	fs.StringVar(&cfg.WordsFile, "words", cfg.WordsFile, "vocabulary file (.txt or .zip) instead of the embedded list")
	fs.StringVar(&cfg.FeedbackRule, "rule", cfg.FeedbackRule, "feedback rule: simple or canonical")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
}

func parse(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// demoOpenings are the openings compared by "simulate" when none are given.
var demoOpenings = map[string][][]string{
	"en": {{"snake", "batch", "chart"}, {"handy", "crime", "lotus"}, {"lunch", "metro", "daisy"}},
	"de": {{"rüböl", "welpe", "ampex"}},
}

/* --------------------------------- serve --------------------------------- */

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	gameFlags(fs, cfg)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	r, err := rule(cfg)
	if err != nil {
		return err
	}
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is empty; /simulate and /search will reject every request")
	}

	games := store.NewMemoryStore(cfg.SessionTTL)
	go games.Janitor(ctx, time.Minute)

	srv := httpserver.New(httpserver.Options{
		Corpus:       corpus,
		Height:       cfg.Height,
		Rule:         r,
		Games:        games,
		Daily:        daily.NewStore(db),
		Runs:         results.NewStore(db),
		Sim:          sim.New(corpus, cfg.Height, sim.WithRule(r), sim.WithWorkers(cfg.Workers), sim.WithSeed(cfg.Seed)),
		DailySalt:    cfg.DailySalt,
		JWTSecret:    cfg.JWT.Secret,
		ClientOrigin: cfg.ClientOrigin,
	})
	log.Info().Str("addr", cfg.Addr()).Msg("starting pyrdle server")
	return srv.Start(ctx, cfg.Addr())
}

/* --------------------------------- play ---------------------------------- */

func runPlay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	gameFlags(fs, cfg)
	secret := fs.String("secret", "", "secret word (random when empty)")
	kind := fs.String("player", "", "let a strategy play (random, greedy, cached)")
	var initial listFlag
	fs.Var(&initial, "initial", "opening words for -player, comma-separated")
	noColor := fs.Bool("no-color", false, "disable colored output")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	r, err := rule(cfg)
	if err != nil {
		return err
	}
	colored := !*noColor

	if *kind == "" {
		g, err := game.New(corpus, cfg.Height, game.WithSecret(strings.ToLower(*secret)), game.WithRule(r))
		if err != nil {
			return err
		}
		_, err = console.Play(os.Stdin, os.Stdout, g, colored)
		return err
	}

	spec := player.Spec{Kind: *kind}
	if len(initial) > 0 {
		spec.Initial = initial[0]
	}
	factory, err := player.NewFactory(corpus, spec, cfg.Seed)
	if err != nil {
		return err
	}
	p, err := factory()
	if err != nil {
		return err
	}
	target := strings.ToLower(*secret)
	if target == "" {
		target = corpus.Choice(nil)
	}
	g, err := sim.New(corpus, cfg.Height, sim.WithRule(r)).PlayOne(ctx, target, p)
	if err != nil && !errors.Is(err, solver.ErrExhausted) {
		return err
	}
	if g == nil {
		return err
	}
	if err != nil {
		fmt.Println("no candidates left")
	}
	return console.Summary(os.Stdout, g, colored)
}

/* ------------------------------- simulate -------------------------------- */

func runSimulate(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	gameFlags(fs, cfg)
	kind := fs.String("player", "", "strategy (random, greedy, cached); empty compares random with the demo openings")
	var initial listFlag
	fs.Var(&initial, "initial", "opening words, comma-separated; repeat to compare several openings")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	r, err := rule(cfg)
	if err != nil {
		return err
	}

	var specs []player.Spec
	switch {
	case *kind == "" && len(initial) == 0:
		specs = append(specs, player.Spec{Kind: string(player.KindRandom)})
		if cfg.Length == 5 {
			for _, ws := range demoOpenings[cfg.Locale] {
				specs = append(specs, player.Spec{Kind: string(player.KindGreedy), Initial: ws})
			}
		}
	case len(initial) == 0:
		specs = append(specs, player.Spec{Kind: *kind})
	default:
		k := *kind
		if k == "" {
			k = string(player.KindGreedy)
		}
		for _, ws := range initial {
			specs = append(specs, player.Spec{Kind: k, Initial: ws})
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "player\tsuccess\tspeed\tquality")
	for _, spec := range specs {
		var rep progress.Reporter
		var bar *progressbar.ProgressBar
		if !*quiet {
			bar = progress.NewBar(os.Stderr, corpus.Len(), spec.String())
			rep = bar
		}
		ctrl := sim.New(corpus, cfg.Height,
			sim.WithRule(r),
			sim.WithWorkers(cfg.Workers),
			sim.WithSeed(cfg.Seed),
			sim.WithProgress(rep),
		)
		start := time.Now()
		h, err := ctrl.Sweep(ctx, spec)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", spec, err)
		}
		log.Info().
			Str("player", spec.String()).
			Int("games", h.Total).
			Float64("success", h.SuccessRate()).
			Dur("took", time.Since(start)).
			Msg("sweep finished")
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n", spec, h.SuccessRate(), h.Speed(), h.Quality(cfg.Height))
	}
	return tw.Flush()
}

/* -------------------------------- search --------------------------------- */

func runSearch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	gameFlags(fs, cfg)
	k := fs.Int("k", 2, "opening width (words per tuple)")
	n := fs.Int("n", 10, "number of top tuples to simulate")
	kind := fs.String("player", string(player.KindCached), "strategy used after the opening (greedy, cached)")
	out := fs.String("out", "-", "TSV output path; - for stdout")
	save := fs.Bool("save", true, "archive the run in the database")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	pk, err := player.Lookup(*kind)
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	r, err := rule(cfg)
	if err != nil {
		return err
	}

	// resized by the search once the ranking is known
	var rep progress.Reporter
	var bar *progressbar.ProgressBar
	if !*quiet && *n > 0 {
		bar = progress.NewBar(os.Stderr, *n*corpus.Len(), "search")
		defer bar.Close()
		rep = bar
	}
	ctrl := sim.New(corpus, cfg.Height,
		sim.WithRule(r),
		sim.WithWorkers(cfg.Workers),
		sim.WithSeed(cfg.Seed),
		sim.WithProgress(rep),
	)
	start := time.Now()
	openings, err := ctrl.SearchOpenings(ctx, *k, *n, pk)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	rows := results.FromOpenings(openings)
	log.Info().Int("k", *k).Int("rows", len(rows)).Dur("took", time.Since(start)).Msg("search finished")

	if *save {
		db, err := openDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := results.NewStore(db).Save(ctx, results.Run{
			Locale: corpus.Locale(),
			Length: corpus.Length(),
			Height: cfg.Height,
			K:      *k,
			N:      *n,
			Player: string(pk),
			Rows:   rows,
		})
		if err != nil {
			return err
		}
		log.Info().Int64("run", id).Str("db", cfg.DBPath).Msg("run saved")
	}

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return results.WriteTSV(w, rows)
}

/* --------------------------------- token --------------------------------- */

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	sub := fs.String("sub", "cli", "token subject")
	fs.IntVar(&cfg.JWT.ExpiresDays, "days", cfg.JWT.ExpiresDays, "days until expiry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tok, exp, err := httpserver.SignToken(cfg.JWT.Secret, *sub, cfg.TokenTTL())
	if err != nil {
		return err
	}
	log.Info().Str("sub", *sub).Time("expires", exp).Msg("token minted")
	fmt.Println(tok)
	return nil
}
