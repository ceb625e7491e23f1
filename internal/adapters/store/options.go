package store

// Option applies a configuration option to the store before opening.
type Option func(*gormStore)

// WithJournalMode overrides the SQLite journal mode. WAL is the default so
// report scans never block tagging writes.
func WithJournalMode(mode string) Option {
	return func(s *gormStore) {
		if mode != "" {
			s.journalMode = mode
		}
	}
}

// WithBusyTimeout sets how long a write waits on a locked database before
// surfacing the lock as an error.
func WithBusyTimeout(ms int) Option {
	return func(s *gormStore) {
		if ms > 0 {
			s.busyTimeoutMS = ms
		}
	}
}
