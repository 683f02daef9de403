// Package sim runs Monte Carlo trials of a scenario across a worker pool and
// aggregates the outcomes.
package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/scenario"
)

// cancelCheckInterval is how many trials a worker runs between context checks.
const cancelCheckInterval = 1024

// SourceFactory returns the random source owned by one worker.
type SourceFactory func(worker int) dice.Source

// SeededSources gives worker i a PCG source on stream i of seed, so a run is
// repeatable for a fixed seed and worker count.
func SeededSources(seed uint64) SourceFactory {
	return func(worker int) dice.Source {
		return dice.NewSeededSource(seed, uint64(worker))
	}
}

// CryptoSources gives every worker a crypto/rand source.
func CryptoSources() SourceFactory {
	return func(int) dice.Source { return dice.NewCryptoSource() }
}

// Options controls a Runner.
type Options struct {
	// Trials is the number of independent combats to fight.
	Trials int
	// Workers is the pool size; 0 means runtime.GOMAXPROCS(0).
	Workers int
	// MaxRounds caps each combat; 0 means unbounded.
	MaxRounds int
	// Sides is the die size; 0 means dice.DefaultSides.
	Sides int
}

// Runner executes Monte Carlo trials.
type Runner struct {
	opts    Options
	sources SourceFactory
	logger  *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: opts.Trials >= 1; sources must be non-nil. A nil logger is replaced by a no-op logger.
func NewRunner(opts Options, sources SourceFactory, logger *zap.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Sides == 0 {
		opts.Sides = dice.DefaultSides
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, sources: sources, logger: logger}
}

// Workers returns the number of workers Run uses: the configured pool size,
// resolved from GOMAXPROCS when unset, capped at the trial count.
func (r *Runner) Workers() int {
	return max(1, min(r.opts.Workers, r.opts.Trials))
}

// Run fights opts.Trials combats of sc. Each trial gets fresh clones of the
// scenario's starting rosters. Trials are split into contiguous blocks, one per
// worker, and per-worker tallies are merged once all workers finish.
//
// Postcondition: on success the returned Tally has Trials == opts.Trials. If any
// trial hits the round limit, or ctx is cancelled, the remaining work stops and
// the error is returned.
func (r *Runner) Run(ctx context.Context, sc scenario.Scenario) (Tally, error) {
	if r.opts.Trials < 1 {
		return Tally{}, fmt.Errorf("sim: trials must be >= 1, got %d", r.opts.Trials)
	}
	start := time.Now()
	workers := r.Workers()

	// Built once and only ever cloned, so safe to share between workers.
	attacker, defender := sc.Rosters()
	win := sc.WinRule()

	partials := make([]Tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * r.opts.Trials / workers
		hi := (w + 1) * r.opts.Trials / workers
		g.Go(func() error {
			roller := dice.NewRoller(r.sources(w), r.opts.Sides, r.logger)
			var t Tally
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				c := combat.Combat{
					Attacker:  attacker.Clone(),
					Defender:  defender.Clone(),
					Win:       win,
					MaxRounds: r.opts.MaxRounds,
				}
				res, err := c.Resolve(roller)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				t.Add(res)
			}
			partials[w] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, combat.ErrRoundLimit) {
			r.logger.Warn("simulation aborted: combat did not resolve",
				zap.String("scenario", sc.ID),
				zap.Int("max_rounds", r.opts.MaxRounds),
				zap.Error(err),
			)
		}
		return Tally{}, err
	}

	var total Tally
	for _, p := range partials {
		total.Merge(p)
	}
	r.logger.Info("simulation complete",
		zap.String("scenario", sc.ID),
		zap.Int("trials", total.Trials),
		zap.Int("workers", workers),
		zap.Int("attacker_wins", total.Attacker),
		zap.Int("defender_wins", total.Defender),
		zap.Int("draws", total.Draw),
		zap.Float64("mean_rounds", total.MeanRounds()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return total, nil
}
