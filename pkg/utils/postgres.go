package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresPool sizes the database/sql pool. Zero fields keep the
// database/sql default, except PingTimeout which falls back to 5s.
type PostgresPool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

const defaultPingTimeout = 5 * time.Second

func (p PostgresPool) apply(db *sql.DB) {
	if p.MaxOpen > 0 {
		db.SetMaxOpenConns(p.MaxOpen)
	}
	if p.MaxIdle > 0 {
		idle := p.MaxIdle
		if p.MaxOpen > 0 && idle > p.MaxOpen {
			idle = p.MaxOpen
		}
		db.SetMaxIdleConns(idle)
	}
	if p.MaxLifetime > 0 {
		db.SetConnMaxLifetime(p.MaxLifetime)
	}
	if p.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.MaxIdleTime)
	}
}

func (p PostgresPool) pingTimeout() time.Duration {
	if p.PingTimeout > 0 {
		return p.PingTimeout
	}
	return defaultPingTimeout
}

// OpenPostgres opens and pings a pool through the named database/sql
// driver ("pgx" for the pgx stdlib adapter). The dsn carries credentials
// and never appears in returned errors.
func OpenPostgres(ctx context.Context, driverName, dsn string, pool PostgresPool) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres (%s): %w", driverName, err)
	}
	pool.apply(db)
	if err := HealthCheck(ctx, db, pool.pingTimeout()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// HealthCheck pings db, bounded by timeout when it is positive.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

// TxFunc is the unit of work executed inside a transaction.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// WithTx commits when fn succeeds and rolls back otherwise. A panic in fn
// rolls back and propagates. A failed rollback is joined onto fn's error.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		done = true
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	done = true
	return nil
}
