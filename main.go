// main.go
//
// Entry point for the pyrdle command.
// Subcommands:
//   - serve     run the HTTP API
//   - play      play a game in the terminal, or watch a player play one
//   - simulate  sweep the corpus with one or more players and compare them
//   - search    rank exclusive opening tuples and simulate the best
//   - token     mint a bearer token for the protected endpoints
//
// Settings come from the environment (see internal/config); flags override
// them per invocation.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cthoyt/pyrdle/internal/config"
	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/words"
)

const usage = `usage: pyrdle <command> [flags]

commands:
  serve      run the HTTP API
  play       play in the terminal (or -player to watch a strategy)
  simulate   compare players over every corpus word
  search     find and simulate the best opening tuples
  token      print a bearer token for /simulate and /search
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, args)
	case "play":
		err = runPlay(ctx, cfg, args)
	case "simulate":
		err = runSimulate(ctx, cfg, args)
	case "search":
		err = runSearch(ctx, cfg, args)
	case "token":
		err = runToken(cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

// setupLogging writes human-readable logs to stderr at the given level.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// loadCorpus builds the configured corpus through a corpus cache.
func loadCorpus(cfg *config.Config) (*words.Corpus, error) {
	var p words.Provider = words.EmbeddedProvider{}
	if cfg.WordsFile != "" {
		p = words.FileProvider{Path: cfg.WordsFile, Encoding: cfg.WordsEncoding}
	}
	cache, err := words.NewCache(p, 0)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c, err := cache.Get(cfg.Length, cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("load %s corpus of length %d: %w", cfg.Locale, cfg.Length, err)
	}
	log.Info().
		Str("locale", c.Locale()).
		Int("length", c.Length()).
		Int("words", c.Len()).
		Dur("took", time.Since(start)).
		Msg("corpus loaded")
	return c, nil
}

// rule resolves the configured feedback rule.
func rule(cfg *config.Config) (game.Rule, error) {
	r, ok := game.RuleByName(cfg.FeedbackRule)
	if !ok {
		return nil, fmt.Errorf("unknown feedback rule %q", cfg.FeedbackRule)
	}
	return r, nil
}
