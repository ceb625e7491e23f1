package service

import (
	"github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDBPath sets the SQLite database path opened at Start.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithStore injects an already-open store, bypassing WithDBPath. Used by
// tests to run against an in-memory database.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard query limits.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// WithRecentLimit caps the recent-events listing size.
func WithRecentLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// WithMinutesMetricKey sets the metric key treated as minutes played.
func WithMinutesMetricKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.minutesMetricKey = key
		}
	}
}

// WithMatchMinutes sets the nominal match length for per-80 projection.
func WithMatchMinutes(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.matchMinutes = minutes
		}
	}
}
