// Package hotkeys maps discrete input symbols (keyboard keys) to metric ids
// to speed up live tagging.
package hotkeys

import (
	"context"
	"sync"

	"github.com/gainline/gainline/internal/domain/model"
)

// Mapper resolves input symbols to metric ids. At most one metric is bound
// per symbol; rebinding a symbol replaces the previous binding.
type Mapper interface {
	// Bind associates symbol with metricID, overwriting any existing binding.
	Bind(ctx context.Context, symbol string, metricID uint)

	// Resolve returns the metric id bound to symbol, if any.
	Resolve(ctx context.Context, symbol string) (uint, bool)

	// Unbind removes the binding for symbol, if present.
	Unbind(ctx context.Context, symbol string)

	// ClearAll removes every binding.
	ClearAll(ctx context.Context)

	// Bindings returns a snapshot of the current symbol -> metric id table.
	Bindings(ctx context.Context) map[string]uint

	// LoadPreset binds a named symbol -> label table against the given
	// catalog. Entries whose label does not resolve to an active metric are
	// skipped silently, tolerating partial catalogs. Returns the number of
	// bindings applied.
	LoadPreset(ctx context.Context, preset Preset, metrics []model.Metric) int
}

// inMemoryMapper implements Mapper with a mutex-guarded map.
type inMemoryMapper struct {
	mu       sync.RWMutex
	bindings map[string]uint
}

// NewInMemoryMapper creates a new in-memory mapper with configuration options.
func NewInMemoryMapper(opts ...Option) Mapper {
	m := &inMemoryMapper{
		bindings: make(map[string]uint),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *inMemoryMapper) Bind(_ context.Context, symbol string, metricID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[symbol] = metricID
}

func (m *inMemoryMapper) Resolve(_ context.Context, symbol string) (uint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.bindings[symbol]
	return id, ok
}

func (m *inMemoryMapper) Unbind(_ context.Context, symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, symbol)
}

func (m *inMemoryMapper) ClearAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = make(map[string]uint)
}

func (m *inMemoryMapper) Bindings(_ context.Context) map[string]uint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]uint, len(m.bindings))
	for sym, id := range m.bindings {
		out[sym] = id
	}
	return out
}

func (m *inMemoryMapper) LoadPreset(_ context.Context, preset Preset, metrics []model.Metric) int {
	byLabel := make(map[string]uint, len(metrics))
	for _, metric := range metrics {
		if metric.Active {
			byLabel[metric.Label] = metric.ID
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bound := 0
	for symbol, label := range preset.Keys {
		id, ok := byLabel[label]
		if !ok {
			continue // label not in catalog; skip silently
		}
		m.bindings[symbol] = id
		bound++
	}
	return bound
}
