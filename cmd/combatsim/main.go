// Package main runs a Monte Carlo combat simulation and prints the outcome
// distribution.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/config"
	"github.com/cory-johannsen/combatsim/internal/observability"
	"github.com/cory-johannsen/combatsim/internal/scenario"
	"github.com/cory-johannsen/combatsim/internal/sim"
	"github.com/cory-johannsen/combatsim/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and COMBATSIM_* env when empty)")
	scenarioName := flag.String("scenario", "", "scenario id; overrides scenario.name")
	scenarioFile := flag.String("file", "", "path to a single scenario YAML file; overrides -scenario")
	trials := flag.Int("trials", 0, "number of trials; overrides simulation.trials")
	list := flag.Bool("list", false, "list known scenario ids and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scenarioName != "" {
		cfg.Scenario.Name = *scenarioName
	}
	if *trials > 0 {
		cfg.Simulation.Trials = *trials
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	registry := scenario.NewRegistry()
	if cfg.Scenario.Dir != "" {
		n, err := registry.LoadDir(cfg.Scenario.Dir)
		if err != nil {
			logger.Fatal("loading scenarios", zap.String("dir", cfg.Scenario.Dir), zap.Error(err))
		}
		logger.Info("scenarios loaded", zap.String("dir", cfg.Scenario.Dir), zap.Int("count", n))
	}

	if *list {
		for _, id := range registry.IDs() {
			fmt.Println(id)
		}
		return
	}

	var sc scenario.Scenario
	if *scenarioFile != "" {
		sc, err = scenario.Load(*scenarioFile)
	} else {
		sc, err = registry.Get(cfg.Scenario.Name)
	}
	if err != nil {
		logger.Fatal("resolving scenario", zap.Error(err))
	}

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))

	sources := sim.CryptoSources()
	if cfg.Simulation.Seed != 0 {
		sources = sim.SeededSources(cfg.Simulation.Seed)
	}
	opts := sim.Options{
		Trials:    cfg.Simulation.Trials,
		Workers:   cfg.Simulation.Workers,
		MaxRounds: cfg.Simulation.MaxRounds,
		Sides:     cfg.Simulation.Sides(),
	}
	runner := sim.NewRunner(opts, sources, logger)
	logger.Info("starting simulation",
		zap.String("scenario", sc.ID),
		zap.String("variant", string(sc.Variant)),
		zap.Int("trials", opts.Trials),
		zap.Int("workers", runner.Workers()),
		zap.Uint64("seed", cfg.Simulation.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()
	tally, err := runner.Run(ctx, sc)
	if err != nil {
		logger.Fatal("running simulation", zap.Error(err))
	}
	elapsed := time.Since(start)

	if err := tally.WriteReport(os.Stdout, sc.Outcomes(), cfg.Simulation.Precision); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}

	if !cfg.Database.Enabled {
		return
	}
	store, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to run store", zap.Error(err))
	}
	defer store.Close()
	if err := store.Ready(ctx, 5*time.Second); err != nil {
		logger.Error("run store not ready; run cmd/migrate", zap.Error(err))
		return
	}

	run, err := store.Runs().Save(ctx, postgres.Run{
		ID:           runID,
		ScenarioID:   sc.ID,
		Variant:      string(sc.Variant),
		Trials:       tally.Trials,
		Workers:      runner.Workers(),
		Seed:         cfg.Simulation.Seed,
		Precision:    cfg.Simulation.Precision,
		AttackerWins: tally.Attacker,
		DefenderWins: tally.Defender,
		Draws:        tally.Draw,
		Rounds:       int64(tally.Rounds),
		AttackerHits: int64(tally.AttackerHits),
		DefenderHits: int64(tally.DefenderHits),
		Elapsed:      elapsed,
	})
	if err != nil {
		logger.Error("saving simulation run", zap.Error(err))
		return
	}
	logger.Info("simulation run saved", zap.Time("created_at", run.CreatedAt))
}
