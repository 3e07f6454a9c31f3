package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/finmate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags known here are considered (see flagx.FilterArgs), so -c and
// the like are left to their own loaders. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, "a", "s", "l", "t", "log")

	fs := flag.NewFlagSet("finmate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the finance backend")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path of the local session database")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address of the view server")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "backend request timeout in seconds, 0 = none")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
