package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Postgres implements Store over database/sql with lib/pq. Headers live in
// witsml_logs as a JSONB document plus typed discovery columns; bulk points
// live narrow in witsml_log_points and go in through COPY.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres opens a pooled connection and verifies it.
func NewPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an existing handle. Used by tests.
func NewPostgresFromDB(db *sql.DB) *Postgres { return &Postgres{db: db} }

// DB exposes the underlying handle for migrations.
func (p *Postgres) DB() *sql.DB { return p.db }

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *Postgres) Close() error                   { return p.db.Close() }

// sqlTxn adapts *sql.Tx to the Txn contract.
type sqlTxn struct {
	tx *sql.Tx
}

func (t *sqlTxn) Commit() error { return t.tx.Commit() }

func (t *sqlTxn) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func txOf(txn Txn) (*sql.Tx, error) {
	t, ok := txn.(*sqlTxn)
	if !ok {
		return nil, witsml.TransactionErr(fmt.Errorf("foreign transaction %T", txn))
	}
	return t.tx, nil
}

// Begin opens a transaction. A non-empty scope key takes a transaction-bound
// advisory lock so concurrent writers against the same header identity
// serialize; the lock releases with the transaction.
func (p *Postgres) Begin(ctx context.Context, scopeKey string) (Txn, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, witsml.TransactionErr(err)
	}
	if scopeKey != "" {
		if _, err := tx.ExecContext(ctx, lockScopeSQL, scopeKey); err != nil {
			_ = tx.Rollback()
			return nil, witsml.TransactionErr(err)
		}
	}
	return &sqlTxn{tx: tx}, nil
}

const (
	lockScopeSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	insertLogSQL = `
		INSERT INTO witsml_logs
			(uri, uid_well, uid_wellbore, uid, name, index_type, direction,
			 index_mnemonic, time_indexed, start_idx, end_idx, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	updateLogSQL = `
		UPDATE witsml_logs
		SET name = $2, start_idx = $3, end_idx = $4, doc = $5, updated_at = NOW()
		WHERE uri = $1`

	selectLogSQL          = `SELECT doc FROM witsml_logs WHERE uri = $1`
	selectLogForUpdateSQL = `SELECT doc FROM witsml_logs WHERE uri = $1 FOR UPDATE`
	countPointsSQL        = `SELECT COUNT(*) FROM witsml_log_points WHERE log_uri = $1`
	selectPointsSQL       = `
		SELECT mnemonic, idx, value FROM witsml_log_points
		WHERE log_uri = $1 AND mnemonic = $2
		ORDER BY idx`
)

func (p *Postgres) InsertEntity(ctx context.Context, txn Txn, l *witsml.Log) error {
	tx, err := txOf(txn)
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
	_, err = tx.ExecContext(ctx, insertLogSQL,
		l.URI(), l.UIDWell, l.UIDWellbore, l.UID, l.Name,
		l.IndexType, direction, l.IndexCurve, l.IsTimeIndexed(),
		nullFloat(r.Start), nullFloat(r.End), doc)
	if isUniqueViolation(err) {
		return witsml.Validationf("log %s already exists", l.URI())
	}
	if err != nil {
		return witsml.TransactionErr(err)
	}
	return nil
}

func (p *Postgres) UpdateEntity(ctx context.Context, txn Txn, spec *UpdateSpec, uri string) error {
	if spec.IsEmpty() {
		return nil
	}
	tx, err := txOf(txn)
	if err != nil {
		return err
	}
	l, err := scanLog(tx.QueryRowContext(ctx, selectLogForUpdateSQL, uri), uri)
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
	if _, err := tx.ExecContext(ctx, updateLogSQL, uri, l.Name, nullFloat(r.Start), nullFloat(r.End), doc); err != nil {
		return witsml.TransactionErr(err)
	}
	return nil
}

func (p *Postgres) GetEntity(ctx context.Context, uri string) (*witsml.Log, error) {
	return scanLog(p.db.QueryRowContext(ctx, selectLogSQL, uri), uri)
}

func (p *Postgres) GetEntityForUpdate(ctx context.Context, txn Txn, uri string) (*witsml.Log, error) {
	tx, err := txOf(txn)
	if err != nil {
		return nil, err
	}
	return scanLog(tx.QueryRowContext(ctx, selectLogForUpdateSQL, uri), uri)
}

func scanLog(row *sql.Row, uri string) (*witsml.Log, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, witsml.NotFoundf("log %s not found", uri)
		}
		return nil, witsml.TransactionErr(err)
	}
	var l witsml.Log
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, witsml.TransactionErr(fmt.Errorf("decode log %s: %w", uri, err))
	}
	return &l, nil
}

func (p *Postgres) WriteRows(ctx context.Context, txn Txn, uri string, points data.Iterator[data.Point]) (int64, error) {
	tx, err := txOf(txn)
	if err != nil {
		return 0, err
	}
	defer points.Close()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("witsml_log_points", "log_uri", "mnemonic", "idx", "value"))
	if err != nil {
		return 0, witsml.TransactionErr(err)
	}

	var n int64
	for points.Next() {
		pt := points.Value()
		if _, err := stmt.ExecContext(ctx, uri, pt.Mnemonic, pt.Index, pt.Value); err != nil {
			_ = stmt.Close()
			return n, witsml.TransactionErr(err)
		}
		n++
	}
	if err := points.Err(); err != nil {
		_ = stmt.Close()
		return n, err
	}
	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return n, witsml.TransactionErr(err)
	}
	if err := stmt.Close(); err != nil {
		return n, witsml.TransactionErr(err)
	}
	return n, nil
}

func (p *Postgres) RowCount(ctx context.Context, uri string) (int64, error) {
	var n int64
	if err := p.db.QueryRowContext(ctx, countPointsSQL, uri).Scan(&n); err != nil {
		return 0, witsml.TransactionErr(err)
	}
	return n, nil
}

func (p *Postgres) ReadRows(ctx context.Context, uri, mnemonic string) (data.Iterator[data.Point], error) {
	rows, err := p.db.QueryContext(ctx, selectPointsSQL, uri, mnemonic)
	if err != nil {
		return nil, witsml.TransactionErr(err)
	}
	return &pointIterator{rows: rows}, nil
}

// pointIterator wraps sql.Rows as a point stream.
type pointIterator struct {
	rows    *sql.Rows
	current data.Point
	err     error
}

func (it *pointIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return false
	}
	if err := it.rows.Scan(&it.current.Mnemonic, &it.current.Index, &it.current.Value); err != nil {
		it.err = err
		return false
	}
	return true
}

func (it *pointIterator) Value() data.Point { return it.current }
func (it *pointIterator) Err() error        { return it.err }
func (it *pointIterator) Close() error      { return it.rows.Close() }

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
