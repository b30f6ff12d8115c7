package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/ecscore/ecs"
	"github.com/plus3/ecscore/ecs/inspect"
	"github.com/rs/zerolog"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Worker goroutines for parallel queries.")
	chunkSize := flag.Int("chunk-size", ecs.DefaultChunkSize, "Chunk size in bytes.")
	seed := flag.Uint64("seed", 1, "Random seed.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu, mem or allocs.")
	verbose := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	if stop := startProfile(*profileMode, logger); stop != nil {
		defer stop()
	}

	logger.Info().Msg("starting ECS stress test")

	// 1. Setup registry, entities and scheduler
	registry := ecs.NewTypeRegistry()
	registerComponents(registry)

	opts := ecs.DefaultOptions()
	opts.ChunkSize = *chunkSize
	opts.Workers = *workers
	opts.Logger = logger
	opts.InitialCapacity = *entityCount
	entities := ecs.NewEntitiesWithOptions(registry, opts)
	defer entities.Dispose()

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	lifetime := &LifetimeSystem{rng: rng}
	census := &CensusSystem{}

	scheduler := ecs.NewScheduler(entities)
	for _, system := range []ecs.System{
		&MovementSystem{},
		lifetime,
		&RegenSystem{},
		&SleepSystem{rng: rng, Chance: 0.001},
		census,
	} {
		if err := scheduler.Register(system); err != nil {
			logger.Fatal().Err(err).Msg("registering system")
		}
	}

	// 2. Populate entities
	logger.Info().Int("entities", *entityCount).Msg("populating")
	for range *entityCount {
		layout, err := randomLayout(registry, rng)
		if err != nil {
			logger.Fatal().Err(err).Msg("building layout")
		}
		if _, err := entities.CreateEntityWithLayout(layout); err != nil {
			logger.Fatal().Err(err).Msg("creating entity")
		}
	}
	inspect.LogStats(logger, entities)

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     registry.Len(),
		Systems:        scheduler.GetStats().SystemCount,
		Workers:        *workers,
		ChunkSize:      *chunkSize,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime:     inspect.NewFrameHistory(10_000),
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	timer := inspect.NewFrameTimer()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			scheduler.Once(timer.GetDeltaTime())
			report.UpdateTime.Record(time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Expired = lifetime.Expired
	report.TeamCensus = census.Counted
	report.Scheduler = scheduler.GetStats()
	report.Storage = entities.CollectStats()
	report.Groups = inspect.Groups(entities, inspect.SortByEntityCount)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("updates", report.TotalUpdates).Msg("simulation finished")

	// 4. Generate report to console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("generating report")
	}
	fmt.Println("--- End of Report ---")
}

// startProfile starts the requested profiler and returns its stop function,
// or nil when profiling is off.
func startProfile(mode string, logger zerolog.Logger) func() {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "allocs":
		kind = profile.MemProfileAllocs
	default:
		logger.Fatal().Str("profile", mode).Msg("unknown profile mode")
	}
	p := profile.Start(kind, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	logger.Info().Str("profile", mode).Msg("profiling enabled")
	return p.Stop
}
