// Package log implements the data adapter for the WITSML 1.4.1.1 Log object.
// It separates submitted headers from their inline bulk rows, persists both
// as one atomic unit, keeps the declared index ranges consistent with the
// rows actually stored across repeated partial updates, and projects stored
// headers into the ETP discovery records streaming clients consume.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/adapter"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/archive"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/metrics"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/store"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/units"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/etp"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Adapter is the 1.4.1.1 Log lifecycle adapter. All operations are
// synchronous; concurrent writers against the same log are serialized by the
// store's scoped transactions, never by locks held here.
type Adapter struct {
	store    store.Store
	units    *units.Registry
	log      *slog.Logger
	metrics  *metrics.Recorder
	archiver *archive.Archiver

	nowFn func() time.Time
}

// New builds the adapter over shared infrastructure. The store is required;
// a nil units registry falls back to the embedded catalog and a nil logger
// to slog.Default().
func New(deps adapter.Deps) (*Adapter, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("log adapter requires a store")
	}
	u := deps.Units
	if u == nil {
		u = units.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		store:    deps.Store,
		units:    u,
		log:      logger.With("component", "adapter.log"),
		metrics:  deps.Metrics,
		archiver: deps.Archiver,
		nowFn:    time.Now,
	}, nil
}

// Capabilities declares the lifecycle operations this adapter supports.
func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{
		ObjectType:     adapter.ObjectTypeLog,
		SchemaVersion:  adapter.Version141,
		SupportsAdd:    true,
		SupportsGet:    true,
		SupportsUpdate: true,
		SupportsDelete: false,
	}
}

// Add persists a brand-new log. Caller-supplied index bounds are discarded
// before the write and recomputed from the submitted rows; header and bulk
// rows commit together or not at all.
func (a *Adapter) Add(ctx context.Context, l *witsml.Log) (err error) {
	started := a.nowFn()
	var b *data.Batch
	defer func() {
		a.metrics.ObserveAdd(err, a.nowFn().Sub(started), batchPoints(b), batchSkipped(b))
	}()

	if err = witsml.CheckLog(l); err != nil {
		return err
	}
	if l.UID == "" {
		l.UID = uuid.New().String()
	}
	l.ClearIndexRanges()
	sections := l.DetachData()
	if b, err = data.Build(l, sections, a.units); err != nil {
		return err
	}

	// Brand-new identity, so the transaction begins unscoped.
	txn, err := a.store.Begin(ctx, "")
	if err != nil {
		return err
	}
	defer txn.Rollback()

	if err = a.store.InsertEntity(ctx, txn, l); err != nil {
		return err
	}
	var written int64
	if b.Len() > 0 {
		if written, err = a.store.WriteRows(ctx, txn, l.URI(), b.Points()); err != nil {
			return err
		}
	}
	applyBatchRanges(l, b)

	now := a.nowFn()
	spec := store.NewUpdateSpec().
		SetTime(witsml.FieldDTimCreation, now).
		SetTime(witsml.FieldDTimLastChange, now)
	appendRangeOps(spec, l, b)
	if err = spec.Apply(l); err != nil {
		return err
	}
	if err = a.store.UpdateEntity(ctx, txn, spec, l.URI()); err != nil {
		return err
	}
	if cerr := txn.Commit(); cerr != nil {
		return witsml.TransactionErr(cerr)
	}

	a.archive(ctx, l, b)
	a.log.Info("log added",
		"uri", l.URI(), "rows", b.Rows(), "points", written, "skipped", b.Skipped())
	return nil
}

// Update applies a partial update to a stored log: only fields the patch
// carries change (an explicit null clears), appended rows widen the stored
// ranges by merge, and everything commits as one unit scoped to this log's
// identity alone.
func (a *Adapter) Update(ctx context.Context, uri string, patch witsml.LogPatch) (err error) {
	started := a.nowFn()
	var b *data.Batch
	defer func() {
		a.metrics.ObserveUpdate(err, a.nowFn().Sub(started), batchPoints(b), batchSkipped(b))
	}()

	if len(patch) == 0 {
		err = witsml.Validationf("update for %s carries no fields", uri)
		return err
	}
	if _, err = a.store.GetEntity(ctx, uri); err != nil {
		return err
	}

	txn, err := a.store.Begin(ctx, uri)
	if err != nil {
		return err
	}
	defer txn.Rollback()

	// Re-read inside the scope so the merge starts from the latest committed
	// state, never a stale snapshot.
	current, err := a.store.GetEntityForUpdate(ctx, txn, uri)
	if err != nil {
		return err
	}

	spec := store.FromPatch(patch)
	if err = spec.Apply(current); err != nil {
		return err
	}
	frags := patch.CurveFragments()
	if len(frags) > 0 {
		if err = reconcileCurves(current, frags); err != nil {
			return err
		}
	}

	if b, err = data.Build(current, patch.DataFragments(), a.units); err != nil {
		return err
	}
	var written int64
	if b.Len() > 0 {
		if written, err = a.store.WriteRows(ctx, txn, uri, b.Points()); err != nil {
			return err
		}
	}
	applyBatchRanges(current, b)

	spec.SetTime(witsml.FieldDTimLastChange, a.nowFn())
	if len(frags) > 0 && b.IsEmpty() {
		// Curve-list edits need persisting even without data rows.
		spec.Set(witsml.FieldCurves, current.LogCurveInfo)
	}
	appendRangeOps(spec, current, b)
	if err = a.store.UpdateEntity(ctx, txn, spec, uri); err != nil {
		return err
	}
	if cerr := txn.Commit(); cerr != nil {
		return witsml.TransactionErr(cerr)
	}

	a.archive(ctx, current, b)
	a.log.Info("log updated",
		"uri", uri, "ops", len(spec.Ops()), "rows", b.Rows(), "points", written, "skipped", b.Skipped())
	return nil
}

// Get loads a committed header by its canonical URI.
func (a *Adapter) Get(ctx context.Context, uri string) (*witsml.Log, error) {
	return a.store.GetEntity(ctx, uri)
}

// Metadata projects a stored log into channel discovery records, one per
// non-index curve, each embedding the shared index record.
func (a *Adapter) Metadata(ctx context.Context, uri string) ([]*etp.ChannelMetadataRecord, error) {
	l, err := a.store.GetEntity(ctx, uri)
	if err != nil {
		return nil, err
	}
	index := IndexMetadata(l, DefaultScale(l))
	ranges := RangeMap(l)
	records := make([]*etp.ChannelMetadataRecord, 0, len(l.LogCurveInfo))
	for _, c := range l.LogCurveInfo {
		if c.Mnemonic == l.IndexCurve {
			continue
		}
		rec, err := ChannelMetadata(l, c, index, ranges)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// appendRangeOps lifts the header's post-merge index bounds and curve list
// into store-side field operations. Nothing is appended for an empty batch,
// so a log written without rows keeps "no range" rather than a fabricated
// one.
func appendRangeOps(spec *store.UpdateSpec, l *witsml.Log, b *data.Batch) {
	if b.IsEmpty() {
		return
	}
	if l.IsTimeIndexed() {
		if l.StartDateTimeIndex != "" {
			spec.Set(witsml.FieldStartDateTimeIndex, l.StartDateTimeIndex)
		}
		if l.EndDateTimeIndex != "" {
			spec.Set(witsml.FieldEndDateTimeIndex, l.EndDateTimeIndex)
		}
	} else {
		if l.StartIndex != nil {
			spec.Set(witsml.FieldStartIndex, *l.StartIndex)
		}
		if l.EndIndex != nil {
			spec.Set(witsml.FieldEndIndex, *l.EndIndex)
		}
	}
	if len(l.LogCurveInfo) > 0 {
		spec.Set(witsml.FieldCurves, l.LogCurveInfo)
	}
}

// archive uploads the consumed batch after commit. Failures are logged and
// counted, never surfaced: the write already committed and archival is
// best-effort.
func (a *Adapter) archive(ctx context.Context, l *witsml.Log, b *data.Batch) {
	if a.archiver == nil || b == nil || b.Len() == 0 {
		return
	}
	key, err := a.archiver.ArchiveBatch(ctx, l, b)
	a.metrics.ObserveArchive(err)
	if err != nil {
		a.log.Warn("batch archive failed", "uri", l.URI(), "error", err)
		return
	}
	a.log.Debug("batch archived", "uri", l.URI(), "key", key)
}

func batchPoints(b *data.Batch) int64 {
	if b == nil {
		return 0
	}
	return int64(b.Len())
}

func batchSkipped(b *data.Batch) int64 {
	if b == nil {
		return 0
	}
	return int64(b.Skipped())
}
