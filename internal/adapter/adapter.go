// Package adapter defines the contract a versioned data adapter fulfils and
// the registry a host dispatch layer consults to locate one for a given
// entity type and schema version.
package adapter

import (
	"log/slog"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/archive"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/metrics"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/store"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/units"
)

// Well-known object types and schema versions.
const (
	ObjectTypeLog = "log"

	Version141 = "1.4.1.1"
)

// Key identifies an adapter by the entity type it persists and the schema
// version it speaks.
type Key struct {
	ObjectType    string
	SchemaVersion string
}

func (k Key) String() string { return k.ObjectType + "@" + k.SchemaVersion }

// Deps is the shared infrastructure handed to adapter factories.
type Deps struct {
	Store   store.Store
	Units   *units.Registry
	Logger  *slog.Logger
	Metrics *metrics.Recorder

	// Archiver is optional; adapters treat a nil value as archival off.
	Archiver *archive.Archiver
}

// Adapter is the minimal surface the host layer sees. Typed lifecycle
// operations live on the concrete adapter types.
type Adapter interface {
	// Capabilities declares which lifecycle operations the adapter
	// supports. Purely declarative, no runtime behavior.
	Capabilities() Capabilities
}

// Factory builds an adapter instance over shared infrastructure.
type Factory func(deps Deps) (Adapter, error)
