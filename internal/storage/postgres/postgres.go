// Package postgres persists simulation runs in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/combatsim/internal/config"
)

// SchemaVersion is the migration version the run store expects, matching the
// highest numbered file under migrations/.
const SchemaVersion = 1

// ErrSchemaNotReady is returned by Ready when the simulation_runs schema has
// not been migrated to SchemaVersion.
var ErrSchemaNotReady = errors.New("simulation run schema not ready")

// Store is the run store: a pgx pool plus the repositories built on it.
type Store struct {
	pool *pgxpool.Pool
	runs *RunRepository
}

// Open connects to the run store described by cfg.
//
// Precondition: cfg.Enabled is true and cfg passes validation.
// Postcondition: Returns a connected Store or a non-nil error. The schema is
// not checked; call Ready before writing runs.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing run store config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating run store pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging run store: %w", err)
	}
	return NewStore(pool), nil
}

// NewStore wraps an existing pool.
//
// Precondition: pool must be open. The Store takes ownership and closes it.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, runs: NewRunRepository(pool)}
}

// Runs returns the simulation run repository.
func (s *Store) Runs() *RunRepository { return s.runs }

// Ready checks within timeout that the database answers and that migrations
// have brought simulation_runs to SchemaVersion without leaving it dirty.
//
// Postcondition: Returns nil, an error wrapping ErrSchemaNotReady, or a
// connectivity error.
func (s *Store) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var table *string
	if err := s.pool.QueryRow(ctx, `SELECT to_regclass('simulation_runs')::text`).Scan(&table); err != nil {
		return fmt.Errorf("checking run store: %w", err)
	}
	if table == nil {
		return fmt.Errorf("%w: simulation_runs table missing", ErrSchemaNotReady)
	}

	var (
		version int64
		dirty   bool
	)
	err := s.pool.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: no migration recorded", ErrSchemaNotReady)
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return fmt.Errorf("%w: migration %d is dirty", ErrSchemaNotReady, version)
	case version < SchemaVersion:
		return fmt.Errorf("%w: at version %d, want %d", ErrSchemaNotReady, version, SchemaVersion)
	}
	return nil
}

// Close releases all pool resources.
func (s *Store) Close() {
	s.pool.Close()
}
