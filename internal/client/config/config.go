package config

import "time"

// Config holds runtime settings for the Postboard CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-request timeout for API calls.
//   - DatabasePath: path of the local SQLite file holding the session.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "postboard.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
