package log

import (
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/adapter"
)

// init registers the 1.4.1.1 Log factory with the adapter registry.
func init() {
	registry := adapter.DefaultRegistry()

	registry.Register(adapter.Key{ObjectType: adapter.ObjectTypeLog, SchemaVersion: adapter.Version141},
		func(deps adapter.Deps) (adapter.Adapter, error) {
			return New(deps)
		})
}
