package archive

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/units"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

func testLog() *witsml.Log {
	return &witsml.Log{
		UIDWell:     "w1",
		UIDWellbore: "wb1",
		UID:         "l1",
		Name:        "run 7",
		IndexType:   witsml.IndexTypeMeasuredDepth,
		IndexCurve:  "DEPT",
		LogCurveInfo: []*witsml.LogCurveInfo{
			{Mnemonic: "DEPT", Unit: "m"},
			{Mnemonic: "GR", Unit: "gAPI"},
		},
	}
}

func testBatch(t *testing.T, l *witsml.Log) *data.Batch {
	t.Helper()
	b, err := data.Build(l, []*witsml.LogData{{
		MnemonicList: "DEPT,GR",
		Data:         []string{"100,50.1", "101,51.2", "102,52.3"},
	}}, units.Default())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestArchiveBatch(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	a := New(store, Config{Bucket: "witsml", Prefix: "batches"})
	a.nowFn = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	l := testLog()
	key, err := a.ArchiveBatch(context.Background(), l, testBatch(t, l))
	if err != nil {
		t.Fatal(err)
	}
	wantPrefix := "batches/w1/wb1/l1/dt=2024-03-09/run-"
	if !strings.HasPrefix(key, wantPrefix) || !strings.HasSuffix(key, ".parquet") {
		t.Fatalf("key = %q, want %s*.parquet", key, wantPrefix)
	}

	obj, err := store.GetObject(context.Background(), "witsml", key)
	if err != nil {
		t.Fatal(err)
	}
	if len(obj) == 0 {
		t.Fatal("archived object is empty")
	}
	// Parquet magic bytes frame the file.
	if string(obj[:4]) != "PAR1" || string(obj[len(obj)-4:]) != "PAR1" {
		t.Fatal("archived object is not a parquet file")
	}

	keys, err := store.ListPrefix(context.Background(), "witsml", "batches/w1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("ListPrefix = %v", keys)
	}
}

func TestArchiveBatchEmptyNoop(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	a := New(store, Config{Bucket: "witsml"})

	l := testLog()
	empty, err := data.Build(l, nil, units.Default())
	if err != nil {
		t.Fatal(err)
	}
	key, err := a.ArchiveBatch(context.Background(), l, empty)
	if err != nil || key != "" {
		t.Fatalf("empty batch: key=%q err=%v", key, err)
	}

	var nilArchiver *Archiver
	if key, err := nilArchiver.ArchiveBatch(context.Background(), l, empty); err != nil || key != "" {
		t.Fatalf("nil archiver: key=%q err=%v", key, err)
	}
}

func TestArchiveThrottled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	a := New(store, Config{Bucket: "witsml", UploadsPerMinute: 600})
	if a.limiter == nil {
		t.Fatal("limiter not configured")
	}
	l := testLog()
	// Burst allowance covers consecutive uploads without blocking.
	for i := 0; i < 3; i++ {
		if _, err := a.ArchiveBatch(context.Background(), l, testBatch(t, l)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSanitizeSegment(t *testing.T) {
	cases := map[string]string{
		"w1":           "w1",
		"well (north)": "well--north",
		"a/b\\c":       "a-b-c",
		" spaced ":     "spaced",
	}
	for in, want := range cases {
		if got := sanitizeSegment(in); got != want {
			t.Errorf("sanitizeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
