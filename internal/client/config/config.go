package config

import (
	"os"
	"time"
)

// Config holds runtime settings shared by the terminal client and the view server.
//
// Fields:
//   - BaseURL: scheme://host:port of the finance backend.
//   - StoragePath: SQLite file holding the persisted session (user, token).
//   - ListenAddr: address of the local view server; it never falls back to another port.
//   - RequestTimeout: per-request deadline for backend calls, 0 means none.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL        string
	StoragePath    string
	ListenAddr     string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with the values the backend is usually run with.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.StoragePath = "finmate.db"
	c.ListenAddr = "127.0.0.1:5173"
	c.RequestTimeout = 0
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
