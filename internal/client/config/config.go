package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the rehearsal CLI.
type Config struct {
	ServerURL      string
	SessionFile    string
	RequestTimeout time.Duration
}

// DefaultSessionFile is ~/.rehearsal/session.json, or a file in the working
// directory when the home directory is unknown.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rehearsal-session.json"
	}
	return filepath.Join(home, ".rehearsal", "session.json")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.SessionFile = DefaultSessionFile()
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
