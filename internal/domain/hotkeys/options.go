package hotkeys

// Option applies a configuration option to the in-memory mapper.
type Option func(*inMemoryMapper)

// WithBindings seeds the mapper with an initial symbol -> metric id table.
func WithBindings(bindings map[string]uint) Option {
	return func(m *inMemoryMapper) {
		for symbol, id := range bindings {
			m.bindings[symbol] = id
		}
	}
}
