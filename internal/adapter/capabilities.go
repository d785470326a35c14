package adapter

// Capabilities declares which lifecycle operations an adapter supports for
// its entity type at one schema version. Consumed by the capability
// advertisement the host serves to clients; nothing here is enforced at
// runtime.
type Capabilities struct {
	ObjectType    string `json:"objectType"`
	SchemaVersion string `json:"schemaVersion"`

	SupportsAdd    bool `json:"supportsAdd"`
	SupportsGet    bool `json:"supportsGet"`
	SupportsUpdate bool `json:"supportsUpdate"`
	SupportsDelete bool `json:"supportsDelete"`
}

// Key returns the registry key the capabilities describe.
func (c Capabilities) Key() Key {
	return Key{ObjectType: c.ObjectType, SchemaVersion: c.SchemaVersion}
}

// Advertise instantiates every registered adapter and collects its declared
// capabilities, sorted by key.
func Advertise(r *Registry, deps Deps) ([]Capabilities, error) {
	keys := r.List()
	out := make([]Capabilities, 0, len(keys))
	for _, key := range keys {
		a, err := r.Create(key, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, a.Capabilities())
	}
	return out, nil
}
