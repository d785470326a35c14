package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS witsml_logs (
	uri            TEXT PRIMARY KEY,
	uid_well       TEXT NOT NULL,
	uid_wellbore   TEXT NOT NULL,
	uid            TEXT NOT NULL,
	name           TEXT NOT NULL,
	index_type     TEXT NOT NULL,
	direction      TEXT NOT NULL DEFAULT 'increasing',
	index_mnemonic TEXT NOT NULL,
	time_indexed   INTEGER NOT NULL,
	start_idx      REAL,
	end_idx        REAL,
	doc            TEXT NOT NULL,
	created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
	updated_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
	UNIQUE (uid_well, uid_wellbore, uid)
);

CREATE INDEX IF NOT EXISTS idx_witsml_logs_wellbore ON witsml_logs(uid_well, uid_wellbore);

CREATE TABLE IF NOT EXISTS witsml_log_points (
	log_uri  TEXT NOT NULL REFERENCES witsml_logs(uri) ON DELETE CASCADE,
	mnemonic TEXT NOT NULL,
	idx      REAL NOT NULL,
	value    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_witsml_log_points_curve ON witsml_log_points(log_uri, mnemonic, idx);
`

// SQLite implements Store over modernc.org/sqlite for dev and embedded
// deployments. A store-wide mutex serializes transactions, which subsumes
// per-identity scoping; the schema is ensured inline on open.
type SQLite struct {
	db *sql.DB

	writeMu sync.Mutex
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (or creates) the database at path. ":memory:" works for
// throwaway stores.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *SQLite) Close() error                   { return s.db.Close() }

// sqliteTxn pairs *sql.Tx with the store-wide write lock.
type sqliteTxn struct {
	tx      *sql.Tx
	release sync.Once
	unlock  func()
}

func (t *sqliteTxn) done() { t.release.Do(t.unlock) }

func (t *sqliteTxn) Commit() error {
	defer t.done()
	return t.tx.Commit()
}

func (t *sqliteTxn) Rollback() error {
	defer t.done()
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func sqliteTxOf(txn Txn) (*sql.Tx, error) {
	t, ok := txn.(*sqliteTxn)
	if !ok {
		return nil, witsml.TransactionErr(fmt.Errorf("foreign transaction %T", txn))
	}
	return t.tx, nil
}

func (s *SQLite) Begin(ctx context.Context, scopeKey string) (Txn, error) {
	_ = scopeKey
	s.writeMu.Lock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.writeMu.Unlock()
		return nil, witsml.TransactionErr(err)
	}
	return &sqliteTxn{tx: tx, unlock: s.writeMu.Unlock}, nil
}

func (s *SQLite) InsertEntity(ctx context.Context, txn Txn, l *witsml.Log) error {
	tx, err := sqliteTxOf(txn)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return witsml.Validationf("encode log %s: %v", l.URI(), err)
	}
	r := l.HeaderRange()
	direction := l.Direction
	if direction == "" {
		direction = witsml.DirectionIncreasing
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO witsml_logs
			(uri, uid_well, uid_wellbore, uid, name, index_type, direction,
			 index_mnemonic, time_indexed, start_idx, end_idx, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.URI(), l.UIDWell, l.UIDWellbore, l.UID, l.Name,
		l.IndexType, direction, l.IndexCurve, l.IsTimeIndexed(),
		nullFloat(r.Start), nullFloat(r.End), string(doc))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return witsml.Validationf("log %s already exists", l.URI())
		}
		return witsml.TransactionErr(err)
	}
	return nil
}

func (s *SQLite) UpdateEntity(ctx context.Context, txn Txn, spec *UpdateSpec, uri string) error {
	if spec.IsEmpty() {
		return nil
	}
	tx, err := sqliteTxOf(txn)
	if err != nil {
		return err
	}
	l, err := scanLog(tx.QueryRowContext(ctx, `SELECT doc FROM witsml_logs WHERE uri = ?`, uri), uri)
	if err != nil {
		return err
	}
	if err := spec.Apply(l); err != nil {
		return err
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return witsml.Validationf("encode log %s: %v", uri, err)
	}
	r := l.HeaderRange()
	_, err = tx.ExecContext(ctx, `
		UPDATE witsml_logs
		SET name = ?, start_idx = ?, end_idx = ?, doc = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')
		WHERE uri = ?`,
		l.Name, nullFloat(r.Start), nullFloat(r.End), string(doc), uri)
	if err != nil {
		return witsml.TransactionErr(err)
	}
	return nil
}

func (s *SQLite) GetEntity(ctx context.Context, uri string) (*witsml.Log, error) {
	return scanLog(s.db.QueryRowContext(ctx, `SELECT doc FROM witsml_logs WHERE uri = ?`, uri), uri)
}

func (s *SQLite) GetEntityForUpdate(ctx context.Context, txn Txn, uri string) (*witsml.Log, error) {
	tx, err := sqliteTxOf(txn)
	if err != nil {
		return nil, err
	}
	// The store-wide write lock already excludes other writers.
	return scanLog(tx.QueryRowContext(ctx, `SELECT doc FROM witsml_logs WHERE uri = ?`, uri), uri)
}

func (s *SQLite) WriteRows(ctx context.Context, txn Txn, uri string, points data.Iterator[data.Point]) (int64, error) {
	tx, err := sqliteTxOf(txn)
	if err != nil {
		return 0, err
	}
	defer points.Close()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO witsml_log_points (log_uri, mnemonic, idx, value)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, witsml.TransactionErr(err)
	}
	defer stmt.Close()

	var n int64
	for points.Next() {
		pt := points.Value()
		if _, err := stmt.ExecContext(ctx, uri, pt.Mnemonic, pt.Index, pt.Value); err != nil {
			return n, witsml.TransactionErr(err)
		}
		n++
	}
	if err := points.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func (s *SQLite) RowCount(ctx context.Context, uri string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM witsml_log_points WHERE log_uri = ?`, uri).Scan(&n); err != nil {
		return 0, witsml.TransactionErr(err)
	}
	return n, nil
}

func (s *SQLite) ReadRows(ctx context.Context, uri, mnemonic string) (data.Iterator[data.Point], error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mnemonic, idx, value FROM witsml_log_points
		WHERE log_uri = ? AND mnemonic = ?
		ORDER BY idx`, uri, mnemonic)
	if err != nil {
		return nil, witsml.TransactionErr(err)
	}
	return &pointIterator{rows: rows}, nil
}
