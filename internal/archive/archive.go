package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"golang.org/x/time/rate"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Config tunes the archiver.
type Config struct {
	Bucket string
	Prefix string

	// UploadsPerMinute throttles puts against the object store; zero
	// disables throttling.
	UploadsPerMinute int
}

// Archiver writes one parquet artifact per consumed batch. Points are laid
// out narrow: (mnemonic, idx, value) per row, snappy-compressed.
type Archiver struct {
	store   ObjectStore
	cfg     Config
	limiter *rate.Limiter
	nowFn   func() time.Time
}

// New builds an archiver over any object store.
func New(store ObjectStore, cfg Config) *Archiver {
	a := &Archiver{store: store, cfg: cfg, nowFn: time.Now}
	if cfg.UploadsPerMinute > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(float64(cfg.UploadsPerMinute)/60.0), cfg.UploadsPerMinute)
	}
	return a
}

// ArchiveBatch encodes the batch and uploads it under
// <prefix>/<uidWell>/<uidWellbore>/<uid>/dt=<date>/run-<nanos>.parquet.
// Returns the object key. A nil archiver or an empty batch is a no-op.
func (a *Archiver) ArchiveBatch(ctx context.Context, l *witsml.Log, b *data.Batch) (string, error) {
	if a == nil || b == nil || b.Len() == 0 {
		return "", nil
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	buf, rows, err := encodeParquet(b.Points())
	if err != nil {
		return "", err
	}

	now := a.nowFn().UTC()
	key := joinKey(
		a.cfg.Prefix,
		l.UIDWell,
		l.UIDWellbore,
		l.UID,
		fmt.Sprintf("dt=%s", now.Format("2006-01-02")),
		fmt.Sprintf("run-%d.parquet", now.UnixNano()),
	)
	if err := a.store.PutObject(ctx, a.cfg.Bucket, key, buf); err != nil {
		return "", fmt.Errorf("archive %d points for %s: %w", rows, l.URI(), err)
	}
	return key, nil
}

// pointSchema is the fixed narrow layout of archived batches.
var pointSchema = func() string {
	out := map[string]any{
		"Tag": "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": []map[string]string{
			{"Tag": "name=mnemonic, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
			{"Tag": "name=idx, type=DOUBLE, repetitiontype=REQUIRED"},
			{"Tag": "name=value, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
		},
	}
	b, _ := json.Marshal(out)
	return string(b)
}()

func encodeParquet(points data.Iterator[data.Point]) ([]byte, int64, error) {
	defer points.Close()

	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := writer.NewJSONWriter(pointSchema, pfw, 4)
	if err != nil {
		return nil, 0, fmt.Errorf("open parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	var rows int64
	for points.Next() {
		p := points.Value()
		row, err := json.Marshal(map[string]any{
			"mnemonic": p.Mnemonic,
			"idx":      p.Index,
			"value":    p.Value,
		})
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, rows, err
		}
		if err := pw.Write(string(row)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, rows, fmt.Errorf("write parquet row: %w", err)
		}
		rows++
	}
	if err := points.Err(); err != nil {
		_ = pw.WriteStop()
		_ = pfw.Close()
		return nil, rows, err
	}
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return nil, rows, fmt.Errorf("close parquet writer: %w", err)
	}
	_ = pfw.Close()
	return buf.Bytes(), rows, nil
}
