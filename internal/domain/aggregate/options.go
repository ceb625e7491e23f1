package aggregate

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinutesMetricKey sets the metric key whose logged values are treated
// as minutes played.
func WithMinutesMetricKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.minutesKey = key
		}
	}
}

// WithMatchMinutes sets the nominal match length used for the per-80
// projection and the distinct-match minutes fallback.
func WithMatchMinutes(minutes float64) Option {
	return func(e *Engine) {
		if minutes > 0 {
			e.matchMinutes = minutes
		}
	}
}
