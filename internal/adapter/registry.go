package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds adapter factories indexed by (object type, schema version).
type Registry struct {
	factories map[Key]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Key]Factory),
	}
}

// Register adds a factory for the given key.
// Panics if the key is already registered.
func (r *Registry) Register(key Key, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		panic(fmt.Sprintf("adapter factory already registered: %s", key))
	}
	r.factories[key] = factory
}

// Get returns the factory for the given key.
func (r *Registry) Get(key Key) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[key]
	return factory, ok
}

// List returns all registered keys, sorted for stable output.
func (r *Registry) List() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Create instantiates an adapter for the given key.
func (r *Registry) Create(key Key, deps Deps) (Adapter, error) {
	factory, ok := r.Get(key)
	if !ok {
		return nil, fmt.Errorf("no adapter registered for %s", key)
	}
	return factory(deps)
}

// MustCreate creates an adapter or panics on error.
func (r *Registry) MustCreate(key Key, deps Deps) Adapter {
	a, err := r.Create(key, deps)
	if err != nil {
		panic(err)
	}
	return a
}

// --- Default Global Registry ---

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global adapter registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(key Key, factory Factory) {
	defaultRegistry.Register(key, factory)
}
