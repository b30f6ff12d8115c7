package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	dt := float32(frame.DeltaTime)
	_ = ecs.ForEach2(frame.Entities, func(_ ecs.EntityId, p *Position, v *Velocity) {
		p.X += v.DX * dt
		p.Y += v.DY * dt
	})
}

type HealthSystem struct {
	ExecuteCount int
	TotalHealth  float64
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	_ = ecs.ForEach1(frame.Entities, func(_ ecs.EntityId, h *Health) {
		s.TotalHealth += float64(h.Current)
	})
}

type initSystem struct {
	initialized *ecs.Entities
	err         error
}

func (s *initSystem) Init(entities *ecs.Entities) error {
	s.initialized = entities
	return s.err
}

func (s *initSystem) Execute(*ecs.UpdateFrame) {}

type sleepySystem struct {
	delay time.Duration
}

func (s *sleepySystem) Execute(*ecs.UpdateFrame) {
	time.Sleep(s.delay)
}

func TestScheduler(t *testing.T) {
	t.Run("system execution order", func(t *testing.T) {
		entities := newTestEntities(t)
		scheduler := ecs.NewScheduler(entities)

		movement := &MovementSystem{}
		health := &HealthSystem{}
		require.NoError(t, scheduler.Register(movement))
		require.NoError(t, scheduler.Register(health))

		spawn(t, entities, ecs.WithDefault(Position{}), ecs.WithDefault(Velocity{DX: 1, DY: 2}))
		spawn(t, entities, ecs.WithDefault(Health{Current: 100, Max: 100}))

		scheduler.Once(1.0)
		assert.Equal(t, 1, movement.ExecuteCount)
		assert.Equal(t, 1, health.ExecuteCount)

		scheduler.Once(1.0)
		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
	})

	t.Run("custom state persistence", func(t *testing.T) {
		entities := newTestEntities(t)
		scheduler := ecs.NewScheduler(entities)

		spawn(t, entities, ecs.WithDefault(Health{Current: 50, Max: 100}))
		spawn(t, entities, ecs.WithDefault(Health{Current: 75, Max: 100}))

		health := &HealthSystem{}
		require.NoError(t, scheduler.Register(health))

		scheduler.Once(1.0)
		assert.Equal(t, 125.0, health.TotalHealth)

		spawn(t, entities, ecs.WithDefault(Health{Current: 25, Max: 100}))
		scheduler.Once(1.0)
		assert.Equal(t, 150.0, health.TotalHealth)
	})

	t.Run("delta time", func(t *testing.T) {
		entities := newTestEntities(t)
		scheduler := ecs.NewScheduler(entities)
		id := spawn(t, entities, ecs.WithDefault(Position{}), ecs.WithDefault(Velocity{DX: 10, DY: 20}))

		require.NoError(t, scheduler.Register(&MovementSystem{}))
		scheduler.Once(0.5)

		pos, err := ecs.GetComponent[Position](entities, id)
		require.NoError(t, err)
		assert.Equal(t, Position{X: 5, Y: 10}, *pos)
	})

	t.Run("init", func(t *testing.T) {
		entities := newTestEntities(t)
		scheduler := ecs.NewScheduler(entities)

		ok := &initSystem{}
		require.NoError(t, scheduler.Register(ok))
		assert.Same(t, entities, ok.initialized)

		failing := &initSystem{err: errors.New("no assets")}
		err := scheduler.Register(failing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initSystem")
		assert.Equal(t, 1, scheduler.GetStats().SystemCount)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		entities := newTestEntities(t)
		scheduler := ecs.NewScheduler(entities)

		movement := &MovementSystem{}
		require.NoError(t, scheduler.Register(movement))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			scheduler.Run(ctx, time.Millisecond)
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}
		assert.Positive(t, movement.ExecuteCount)
	})
}

func TestSchedulerStats(t *testing.T) {
	entities := newTestEntities(t)
	scheduler := ecs.NewScheduler(entities)

	require.NoError(t, scheduler.Register(&sleepySystem{delay: time.Millisecond}))
	require.NoError(t, scheduler.Register(&sleepySystem{delay: 2 * time.Millisecond}))

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)

	for range 3 {
		scheduler.Once(0.016)
	}

	stats = scheduler.GetStats()
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)

	for i, sys := range stats.Systems {
		assert.Equal(t, "sleepySystem", sys.Name)
		assert.Equal(t, int64(3), sys.ExecutionCount)
		assert.GreaterOrEqual(t, sys.MinDuration, time.Duration(i+1)*time.Millisecond)
		assert.GreaterOrEqual(t, sys.MaxDuration, sys.MinDuration)
		assert.GreaterOrEqual(t, sys.AvgDuration, sys.MinDuration)
		assert.LessOrEqual(t, sys.AvgDuration, sys.MaxDuration)
		assert.Equal(t, sys.TotalDuration, sys.AvgDuration*3+sys.TotalDuration%3)
		assert.Positive(t, sys.LastDuration)
	}
}
