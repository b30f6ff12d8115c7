package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rotisserie/eris"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemTimings struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (t *systemTimings) record(d time.Duration) {
	t.executionCount++
	t.lastDuration = d
	t.totalDuration += d
	t.minDuration = min(t.minDuration, d)
	t.maxDuration = max(t.maxDuration, d)
}

// Scheduler runs systems in registration order, then executes the commands
// they queued.
type Scheduler struct {
	entities *Entities
	frame    *UpdateFrame
	systems  []System
	timings  []*systemTimings
}

// NewScheduler creates a scheduler driving the given entities.
func NewScheduler(entities *Entities) *Scheduler {
	return &Scheduler{
		entities: entities,
		frame:    newUpdateFrame(entities),
	}
}

// Commands returns the buffer executed at the end of every tick.
func (s *Scheduler) Commands() *CommandBuffer {
	return s.frame.Commands
}

// Register appends a system, calling its Init method first if it has one.
func (s *Scheduler) Register(system System) error {
	if initializer, ok := system.(Initializer); ok {
		if err := initializer.Init(s.entities); err != nil {
			return eris.Wrapf(err, "initializing %s", systemName(system))
		}
	}
	s.systems = append(s.systems, system)
	s.timings = append(s.timings, &systemTimings{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
	return nil
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once executes all registered systems once with the given delta time.
func (s *Scheduler) Once(dt float64) {
	s.frame.DeltaTime = dt

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(s.frame)
		s.timings[i].record(time.Since(start))
	}

	s.frame.Commands.Execute()
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.timings)),
	}

	for i, t := range s.timings {
		var avg time.Duration
		if t.executionCount > 0 {
			avg = t.totalDuration / time.Duration(t.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           t.name,
			ExecutionCount: t.executionCount,
			MinDuration:    t.minDuration,
			MaxDuration:    t.maxDuration,
			AvgDuration:    avg,
			LastDuration:   t.lastDuration,
			TotalDuration:  t.totalDuration,
		}
		stats.TotalExecutions += t.executionCount
	}

	return stats
}
