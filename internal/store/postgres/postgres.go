// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// connectRetries bounds how many times New re-pings a database that is not
// accepting connections yet (e.g. a container still starting).
const connectRetries = 5

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := pingWithRetry(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func pingWithRetry(db *sql.DB) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries)
	return backoff.RetryNotify(db.Ping, b, func(err error, wait time.Duration) {
		slog.Warn("database not ready, retrying", "error", err, "wait", wait)
	})
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) ListConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	return queryListConfigurations(ctx, s.db)
}

func (s *PostgresStore) GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	return queryGetConfiguration(ctx, s.db, id)
}

// CreateConfiguration inserts the configuration row and its assets in a
// single transaction.
func (s *PostgresStore) CreateConfiguration(ctx context.Context, c *model.Configuration) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.CreateConfiguration(ctx, c)
	})
}

// ReplaceConfiguration renames the configuration and merges its assets in a
// single transaction.
func (s *PostgresStore) ReplaceConfiguration(ctx context.Context, id int64, name string, assets []*model.Asset) (*model.Configuration, error) {
	var out *model.Configuration
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		c, err := tx.ReplaceConfiguration(ctx, id, name, assets)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) DeleteConfiguration(ctx context.Context, id int64) error {
	return queryDeleteConfiguration(ctx, s.db, id)
}

func (s *PostgresStore) GetToken(ctx context.Context, configurationID int64) (*model.Token, error) {
	return queryGetToken(ctx, s.db, configurationID)
}

func (s *PostgresStore) UpsertToken(ctx context.Context, configurationID int64, token string) (*model.Token, error) {
	return queryUpsertToken(ctx, s.db, configurationID, token)
}

func (s *PostgresStore) DeleteTokensFor(ctx context.Context, configurationID int64) error {
	return queryDeleteTokensFor(ctx, s.db, configurationID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) ListConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	return queryListConfigurations(ctx, s.tx)
}

func (s *txStore) GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	return queryGetConfiguration(ctx, s.tx, id)
}

func (s *txStore) CreateConfiguration(ctx context.Context, c *model.Configuration) error {
	return queryCreateConfiguration(ctx, s.tx, c)
}

func (s *txStore) ReplaceConfiguration(ctx context.Context, id int64, name string, assets []*model.Asset) (*model.Configuration, error) {
	return queryReplaceConfiguration(ctx, s.tx, id, name, assets)
}

func (s *txStore) DeleteConfiguration(ctx context.Context, id int64) error {
	return queryDeleteConfiguration(ctx, s.tx, id)
}

func (s *txStore) GetToken(ctx context.Context, configurationID int64) (*model.Token, error) {
	return queryGetToken(ctx, s.tx, configurationID)
}

func (s *txStore) UpsertToken(ctx context.Context, configurationID int64, token string) (*model.Token, error) {
	return queryUpsertToken(ctx, s.tx, configurationID, token)
}

func (s *txStore) DeleteTokensFor(ctx context.Context, configurationID int64) error {
	return queryDeleteTokensFor(ctx, s.tx, configurationID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Ping is a no-op inside a transaction; the open tx proves the connection.
func (s *txStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
