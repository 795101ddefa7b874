// Package config loads server settings from flags, falling back to
// PLYCHESS_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string
	BotDelay      time.Duration
	MatchInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		BotDelay:      200 * time.Millisecond,
		MatchInterval: time.Second,
	}
}

// Load parses args (without the program name). An empty DataDir keeps the
// game archive in memory.
func Load(args []string) (Config, error) {
	cfg := Default()
	cfg.Addr = envString("PLYCHESS_ADDR", cfg.Addr)
	cfg.AllowOrigins = envString("PLYCHESS_ORIGINS", cfg.AllowOrigins)
	cfg.DataDir = envString("PLYCHESS_DATA_DIR", cfg.DataDir)

	var err error
	if cfg.BotDelay, err = envDuration("PLYCHESS_BOT_DELAY", cfg.BotDelay); err != nil {
		return cfg, err
	}
	if cfg.MatchInterval, err = envDuration("PLYCHESS_MATCH_INTERVAL", cfg.MatchInterval); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("plychess", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "badger directory for finished games (empty: in memory)")
	fs.DurationVar(&cfg.BotDelay, "bot-delay", cfg.BotDelay, "pause before the computer replies")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "how often the matchmaking queue is paired")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.MatchInterval <= 0 {
		return cfg, fmt.Errorf("match interval must be positive, got %s", cfg.MatchInterval)
	}
	if cfg.BotDelay < 0 {
		return cfg, fmt.Errorf("bot delay must not be negative, got %s", cfg.BotDelay)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
