// Package store persists log headers and their bulk data points. It carries
// the transaction, entity and channel-data contracts the lifecycle adapters
// write through, with postgres, sqlite and in-memory implementations.
package store

import (
	"context"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Txn is one atomic write scope. Abandoning a Txn without Commit implies
// rollback; Rollback after Commit is a no-op, so defer Rollback() is safe.
type Txn interface {
	Commit() error
	Rollback() error
}

// TransactionProvider opens write scopes. A non-empty scopeKey serializes
// writers touching the same header identity; brand-new identities begin
// unscoped.
type TransactionProvider interface {
	Begin(ctx context.Context, scopeKey string) (Txn, error)
}

// EntityStore persists log headers. Reads outside a transaction see only
// committed state; GetEntityForUpdate reads the latest state inside the
// caller's transaction so merges never start from a stale snapshot.
type EntityStore interface {
	// InsertEntity writes a brand-new header. Inserting an existing URI
	// is a validation error.
	InsertEntity(ctx context.Context, txn Txn, l *witsml.Log) error

	// UpdateEntity applies the spec's field operations to the stored
	// header. The URI must exist.
	UpdateEntity(ctx context.Context, txn Txn, spec *UpdateSpec, uri string) error

	// GetEntity loads a committed header, or a not-found error.
	GetEntity(ctx context.Context, uri string) (*witsml.Log, error)

	// GetEntityForUpdate loads and locks the header inside txn.
	GetEntityForUpdate(ctx context.Context, txn Txn, uri string) (*witsml.Log, error)
}

// ChannelDataStore persists the bulk sample points detached from headers.
type ChannelDataStore interface {
	// WriteRows appends batch points inside txn and reports how many were
	// written.
	WriteRows(ctx context.Context, txn Txn, uri string, points data.Iterator[data.Point]) (int64, error)

	// RowCount reports the committed point count for a log.
	RowCount(ctx context.Context, uri string) (int64, error)

	// ReadRows streams a curve's committed points ordered by index.
	ReadRows(ctx context.Context, uri, mnemonic string) (data.Iterator[data.Point], error)
}

// Store is the full persistence surface handed to adapters.
type Store interface {
	TransactionProvider
	EntityStore
	ChannelDataStore

	Ping(ctx context.Context) error
	Close() error
}
