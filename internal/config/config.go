// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file; ":memory:" keeps everything
	// in process for throwaway runs.
	DBPath string `koanf:"db_path"`

	// MaxLeaderboardLimit caps GET /reports/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RecentEventsLimit caps the recent-events feed length.
	RecentEventsLimit int `koanf:"recent_events_limit"`

	// MinutesMetricKey names the metric whose logged values count as
	// minutes played for rate normalization.
	MinutesMetricKey string `koanf:"minutes_metric_key"`

	// MatchMinutes is the assumed match length when no minutes have
	// been logged for a player.
	MatchMinutes float64 `koanf:"match_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBPath:              "gainline.db",
		MaxLeaderboardLimit: 100,
		RecentEventsLimit:   20,
		MinutesMetricKey:    "minutes",
		MatchMinutes:        80,
	}
}
