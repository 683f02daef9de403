package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("simulation run not found")

// ErrRunExists is returned when a run ID is saved twice.
var ErrRunExists = errors.New("simulation run already exists")

// Run is the persisted summary of one Monte Carlo run.
type Run struct {
	ID           uuid.UUID
	ScenarioID   string
	Variant      string
	Trials       int
	Workers      int
	Seed         uint64
	Precision    int
	AttackerWins int
	DefenderWins int
	Draws        int
	Rounds       int64
	AttackerHits int64
	DefenderHits int64
	Elapsed      time.Duration
	CreatedAt    time.Time
}

// RunRepository provides simulation run persistence operations.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id::text, scenario_id, variant, trials, workers, seed, precision,
	attacker_wins, defender_wins, draws, rounds, attacker_hits, defender_hits,
	elapsed_ms, created_at`

// Save inserts run.
//
// Precondition: run.ID must be set; run.ScenarioID must be non-empty.
// Postcondition: Returns run with CreatedAt set, or ErrRunExists for a duplicate ID.
func (r *RunRepository) Save(ctx context.Context, run Run) (Run, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO simulation_runs (id, scenario_id, variant, trials, workers, seed, precision,
		     attacker_wins, defender_wins, draws, rounds, attacker_hits, defender_hits, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at`,
		run.ID.String(), run.ScenarioID, run.Variant, run.Trials, run.Workers, int64(run.Seed), run.Precision,
		run.AttackerWins, run.DefenderWins, run.Draws, run.Rounds, run.AttackerHits, run.DefenderHits,
		run.Elapsed.Milliseconds(),
	).Scan(&run.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Run{}, ErrRunExists
		}
		return Run{}, fmt.Errorf("inserting simulation run: %w", err)
	}
	return run, nil
}

// Get retrieves a run by ID.
//
// Postcondition: Returns the Run or ErrRunNotFound.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+runColumns+` FROM simulation_runs WHERE id = $1`,
		id.String(),
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("querying simulation run: %w", err)
	}
	return run, nil
}

// ListByScenario returns up to limit runs of scenarioID, newest first.
//
// Precondition: limit > 0.
// Postcondition: Returns a possibly empty slice or a non-nil error.
func (r *RunRepository) ListByScenario(ctx context.Context, scenarioID string, limit int) ([]Run, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM simulation_runs
		 WHERE scenario_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing simulation runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning simulation run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (Run, error) {
	var (
		run       Run
		id        string
		seed      int64
		elapsedMs int64
	)
	err := row.Scan(&id, &run.ScenarioID, &run.Variant, &run.Trials, &run.Workers, &seed, &run.Precision,
		&run.AttackerWins, &run.DefenderWins, &run.Draws, &run.Rounds, &run.AttackerHits, &run.DefenderHits,
		&elapsedMs, &run.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	run.ID, err = uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run id %q: %w", id, err)
	}
	run.Seed = uint64(seed)
	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return run, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
