package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/config"
)

// DBTX is an interface that both *sqlx.DB and *sqlx.Tx satisfy.
// This allows repositories to work with either a direct connection or a transaction.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Ensure *sqlx.DB, *sqlx.Tx and *DB implement DBTX
var _ DBTX = (*sqlx.DB)(nil)
var _ DBTX = (*sqlx.Tx)(nil)
var _ DBTX = (*DB)(nil)

// State is the connectivity of the backing store. Connecting covers both
// startup and a reachable store whose setup has not yet completed.
type State int32

const (
	StateConnecting State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "connected"
	case StateUnavailable:
		return "disconnected"
	default:
		return "connecting"
	}
}

type DB struct {
	*sqlx.DB
	state atomic.Int32
}

// Open prepares a connection pool without dialing; readiness is established
// later through Ping or WaitReady so startup never blocks on the database.
func Open(databaseURL string) (*DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(config.DBConnMaxLifetime)

	return New(db), nil
}

func New(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

func (db *DB) State() State {
	return State(db.state.Load())
}

func (db *DB) Ready() bool {
	return db.State() == StateReady
}

// Ping performs a single time-bounded connectivity check. A failure marks the
// store unavailable; a success after an outage only moves it back to
// connecting, since setup has to run again before it is ready.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, config.DBConnectTimeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		db.setState(StateUnavailable)
		return err
	}
	db.state.CompareAndSwap(int32(StateUnavailable), int32(StateConnecting))
	return nil
}

// MarkReady is called once migrations and bootstrap have succeeded.
func (db *DB) MarkReady() {
	db.setState(StateReady)
}

// observe marks the store unavailable as soon as a query fails because the
// connection is gone, so callers get 503 instead of waiting for the next ping.
func (db *DB) observe(err error) error {
	if IsConnectionError(err) {
		db.setState(StateUnavailable)
	}
	return err
}

func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.observe(db.DB.GetContext(ctx, dest, query, args...))
}

func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return db.observe(db.DB.SelectContext(ctx, dest, query, args...))
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	return result, db.observe(err)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	row := db.DB.QueryRowContext(ctx, query, args...)
	db.observe(row.Err())
	return row
}

func (db *DB) setState(s State) {
	prev := State(db.state.Swap(int32(s)))
	if prev == s {
		return
	}
	switch s {
	case StateReady:
		log.Info().Msg("database ready")
	case StateUnavailable:
		if prev == StateReady {
			log.Warn().Msg("database disconnected")
		}
	}
}

// WaitReady pings up to attempts times, interval apart, and reports whether
// the database became reachable. It returns early when ctx is cancelled.
func (db *DB) WaitReady(ctx context.Context, attempts int, interval time.Duration) bool {
	for i := 1; i <= attempts; i++ {
		err := db.Ping(ctx)
		if err == nil {
			return true
		}

		if i%3 == 0 {
			log.Info().Err(err).Msgf("waiting for database connection (%d/%d)", i, attempts)
		}
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return false
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// TxFunc is a function that runs within a transaction.
type TxFunc func(tx *sqlx.Tx) error

// WithTx executes fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (db *DB) WithTx(ctx context.Context, fn TxFunc) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", db.observe(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
