// Package config reads settings from the environment, after loading a .env
// file when one exists.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Length        int
	Height        int
	Locale        string
	WordsFile     string
	WordsEncoding string
	FeedbackRule  string
	Workers       int
	Seed          uint64
	LogLevel      string

	Port         string
	DBPath       string
	ClientOrigin string
	SessionTTL   time.Duration
	DailySalt    string
	JWT          JWTConfig
}

type JWTConfig struct {
	Secret      string
	ExpiresDays int
}

// Load reads .env (if present) and then the environment. Malformed numbers
// are errors rather than silently replaced by defaults.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var err error
	c := &Config{
		Locale:        getEnv("WORDLE_LOCALE", "en"),
		WordsFile:     strings.TrimSpace(os.Getenv("WORDS_FILE")),
		WordsEncoding: getEnv("WORDS_ENCODING", "utf-8"),
		FeedbackRule:  getEnv("FEEDBACK_RULE", "simple"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", "5175"),
		DBPath:        getEnv("DB_PATH", "./data/pyrdle.db"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		JWT:           JWTConfig{Secret: os.Getenv("JWT_SECRET")},
	}
	if c.Length, err = envInt("WORDLE_LENGTH", 5); err != nil {
		return nil, err
	}
	if c.Height, err = envInt("WORDLE_HEIGHT", 6); err != nil {
		return nil, err
	}
	if c.Workers, err = envInt("WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if c.JWT.ExpiresDays, err = envInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return nil, err
	}
	if c.SessionTTL, err = envDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv("RANDOM_SEED")); v != "" {
		if c.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("RANDOM_SEED: %w", err)
		}
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c, c.Validate()
}

// Validate checks the game dimensions and the feedback rule name.
func (c *Config) Validate() error {
	if c.Length < 1 {
		return fmt.Errorf("WORDLE_LENGTH must be positive, got %d", c.Length)
	}
	if c.Height < 1 {
		return fmt.Errorf("WORDLE_HEIGHT must be positive, got %d", c.Height)
	}
	switch c.FeedbackRule {
	case "simple", "canonical":
	default:
		return fmt.Errorf("FEEDBACK_RULE must be simple or canonical, got %q", c.FeedbackRule)
	}
	return nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// TokenTTL is the lifetime of minted tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiresDays) * 24 * time.Hour
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
