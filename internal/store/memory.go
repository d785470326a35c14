package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Memory is an in-process Store for tests and examples. Transactions stage
// their writes on a snapshot and publish it on Commit; a store-wide mutex
// serializes writers, so snapshots are never stale.
type Memory struct {
	writerMu sync.Mutex
	stateMu  sync.RWMutex

	logs   map[string]*witsml.Log
	points map[string][]data.Point
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		logs:   make(map[string]*witsml.Log),
		points: make(map[string][]data.Point),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }
func (m *Memory) Close() error                   { return nil }

type memTxn struct {
	m       *Memory
	logs    map[string]*witsml.Log
	points  map[string][]data.Point
	release sync.Once
}

func memTxOf(txn Txn) (*memTxn, error) {
	t, ok := txn.(*memTxn)
	if !ok {
		return nil, witsml.TransactionErr(fmt.Errorf("foreign transaction %T", txn))
	}
	return t, nil
}

func (t *memTxn) Commit() error {
	var committed bool
	t.release.Do(func() {
		t.m.stateMu.Lock()
		t.m.logs = t.logs
		t.m.points = t.points
		t.m.stateMu.Unlock()
		t.m.writerMu.Unlock()
		committed = true
	})
	if !committed {
		return witsml.TransactionErr(fmt.Errorf("transaction already finished"))
	}
	return nil
}

func (t *memTxn) Rollback() error {
	t.release.Do(func() {
		t.m.writerMu.Unlock()
	})
	return nil
}

func (m *Memory) Begin(ctx context.Context, scopeKey string) (Txn, error) {
	_ = scopeKey
	if err := ctx.Err(); err != nil {
		return nil, witsml.TransactionErr(err)
	}
	m.writerMu.Lock()

	t := &memTxn{
		m:      m,
		logs:   make(map[string]*witsml.Log, len(m.logs)),
		points: make(map[string][]data.Point, len(m.points)),
	}
	m.stateMu.RLock()
	for uri, l := range m.logs {
		t.logs[uri] = l
	}
	for uri, pts := range m.points {
		cp := make([]data.Point, len(pts))
		copy(cp, pts)
		t.points[uri] = cp
	}
	m.stateMu.RUnlock()
	return t, nil
}

func cloneLog(l *witsml.Log) (*witsml.Log, error) {
	doc, err := json.Marshal(l)
	if err != nil {
		return nil, witsml.Validationf("encode log %s: %v", l.URI(), err)
	}
	var out witsml.Log
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, witsml.TransactionErr(fmt.Errorf("decode log %s: %w", l.URI(), err))
	}
	return &out, nil
}

func (m *Memory) InsertEntity(ctx context.Context, txn Txn, l *witsml.Log) error {
	t, err := memTxOf(txn)
	if err != nil {
		return err
	}
	uri := l.URI()
	if _, ok := t.logs[uri]; ok {
		return witsml.Validationf("log %s already exists", uri)
	}
	stored, err := cloneLog(l)
	if err != nil {
		return err
	}
	t.logs[uri] = stored
	return nil
}

func (m *Memory) UpdateEntity(ctx context.Context, txn Txn, spec *UpdateSpec, uri string) error {
	if spec.IsEmpty() {
		return nil
	}
	t, err := memTxOf(txn)
	if err != nil {
		return err
	}
	current, ok := t.logs[uri]
	if !ok {
		return witsml.NotFoundf("log %s not found", uri)
	}
	next, err := cloneLog(current)
	if err != nil {
		return err
	}
	if err := spec.Apply(next); err != nil {
		return err
	}
	t.logs[uri] = next
	return nil
}

func (m *Memory) GetEntity(ctx context.Context, uri string) (*witsml.Log, error) {
	m.stateMu.RLock()
	l, ok := m.logs[uri]
	m.stateMu.RUnlock()
	if !ok {
		return nil, witsml.NotFoundf("log %s not found", uri)
	}
	return cloneLog(l)
}

func (m *Memory) GetEntityForUpdate(ctx context.Context, txn Txn, uri string) (*witsml.Log, error) {
	t, err := memTxOf(txn)
	if err != nil {
		return nil, err
	}
	l, ok := t.logs[uri]
	if !ok {
		return nil, witsml.NotFoundf("log %s not found", uri)
	}
	return cloneLog(l)
}

func (m *Memory) WriteRows(ctx context.Context, txn Txn, uri string, points data.Iterator[data.Point]) (int64, error) {
	t, err := memTxOf(txn)
	if err != nil {
		return 0, err
	}
	defer points.Close()

	var n int64
	for points.Next() {
		t.points[uri] = append(t.points[uri], points.Value())
		n++
	}
	if err := points.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func (m *Memory) RowCount(ctx context.Context, uri string) (int64, error) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return int64(len(m.points[uri])), nil
}

func (m *Memory) ReadRows(ctx context.Context, uri, mnemonic string) (data.Iterator[data.Point], error) {
	m.stateMu.RLock()
	var out []data.Point
	for _, pt := range m.points[uri] {
		if pt.Mnemonic == mnemonic {
			out = append(out, pt)
		}
	}
	m.stateMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return data.NewSliceIterator(out), nil
}
