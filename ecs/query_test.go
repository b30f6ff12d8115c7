package ecs_test

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/plus3/ecscore/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect1[T any](t *testing.T, entities *ecs.Entities) []ecs.EntityId {
	t.Helper()
	var ids []ecs.EntityId
	require.NoError(t, ecs.ForEach1(entities, func(id ecs.EntityId, _ *T) {
		ids = append(ids, id)
	}))
	return ids
}

func TestForEachLayoutScenario(t *testing.T) {
	entities := newTestEntities(t)

	layoutAC, err := ecs.NewLayout(entities.Registry(),
		ecs.WithDefault(A{Value: 123}),
		ecs.WithDefault(C{Values: [3]int32{1, 2, 3}}))
	require.NoError(t, err)
	layoutBD, err := ecs.NewLayout(entities.Registry(),
		ecs.WithDefault(B{X: 111, Y: 222, Z: 333}),
		ecs.WithComponent[D]())
	require.NoError(t, err)
	layoutAD, err := ecs.NewLayout(entities.Registry(),
		ecs.WithComponent[A](),
		ecs.WithComponent[D]())
	require.NoError(t, err)

	var withAD []ecs.EntityId
	for _, layout := range []*ecs.Layout{layoutAC, layoutBD, layoutAD} {
		for range 250 {
			id, err := entities.CreateEntityWithLayout(layout)
			require.NoError(t, err)
			if layout == layoutAD {
				withAD = append(withAD, id)
			}
		}
	}
	require.Equal(t, 750, entities.Len())

	accumulate := func() int {
		visited := 0
		require.NoError(t, ecs.ForEach2(entities, func(id ecs.EntityId, a *A, _ *D) {
			a.Value += int32(id)
			visited++
		}))
		return visited
	}

	assert.Equal(t, 250, accumulate())

	last := withAD[len(withAD)-1]
	require.NoError(t, entities.DestroyEntity(last))
	recreated, err := entities.CreateEntityWithLayout(layoutAD)
	require.NoError(t, err)
	a, err := ecs.GetComponent[A](entities, recreated)
	require.NoError(t, err)
	assert.Equal(t, int32(0), a.Value)

	assert.Equal(t, 250, accumulate())

	for _, id := range withAD[:len(withAD)-1] {
		a, err := ecs.GetComponent[A](entities, id)
		require.NoError(t, err)
		assert.Equal(t, int32(id)*2, a.Value)
	}
	a, _ = ecs.GetComponent[A](entities, recreated)
	assert.Equal(t, int32(recreated), a.Value)

	// The {A, C} entities were never visited and keep their defaults.
	require.NoError(t, ecs.ForEach2(entities, func(_ ecs.EntityId, a *A, c *C) {
		assert.Equal(t, int32(123), a.Value)
		assert.Equal(t, [3]int32{1, 2, 3}, c.Values)
	}))
	require.NoError(t, ecs.ForEach1(entities, func(_ ecs.EntityId, b *B) {
		assert.Equal(t, B{X: 111, Y: 222, Z: 333}, *b)
	}))
}

func TestQueryFilters(t *testing.T) {
	entities := newTestEntities(t)
	reg := entities.Registry()
	posId, _ := ecs.ComponentTypeIdOf[Position](reg)
	velId, _ := ecs.ComponentTypeIdOf[Velocity](reg)
	healthId, _ := ecs.ComponentTypeIdOf[Health](reg)

	p := spawn(t, entities, ecs.WithComponent[Position]())
	pv := spawn(t, entities, ecs.WithComponent[Position](), ecs.WithComponent[Velocity]())
	ph := spawn(t, entities, ecs.WithComponent[Position](), ecs.WithComponent[Health]())
	pvh := spawn(t, entities, ecs.WithComponent[Position](), ecs.WithComponent[Velocity](), ecs.WithComponent[Health]())
	v := spawn(t, entities, ecs.WithComponent[Velocity]())

	t.Run("unfiltered", func(t *testing.T) {
		assert.ElementsMatch(t, []ecs.EntityId{p, pv, ph, pvh}, collect1[Position](t, entities))
	})

	t.Run("with", func(t *testing.T) {
		entities.With(velId)
		assert.ElementsMatch(t, []ecs.EntityId{pv, pvh}, collect1[Position](t, entities))

		ecs.With2[Velocity, Health](entities)
		assert.ElementsMatch(t, []ecs.EntityId{pvh}, collect1[Position](t, entities))
	})

	t.Run("no", func(t *testing.T) {
		entities.No(velId)
		assert.ElementsMatch(t, []ecs.EntityId{p, ph}, collect1[Position](t, entities))

		ecs.No2[Velocity, Health](entities)
		assert.ElementsMatch(t, []ecs.EntityId{p}, collect1[Position](t, entities))
	})

	t.Run("any", func(t *testing.T) {
		entities.Any(velId, healthId)
		assert.ElementsMatch(t, []ecs.EntityId{pv, ph, pvh}, collect1[Position](t, entities))

		ecs.Any1[Health](entities)
		assert.ElementsMatch(t, []ecs.EntityId{ph, pvh}, collect1[Position](t, entities))
	})

	t.Run("combined", func(t *testing.T) {
		entities.Any(healthId).No(velId).With(posId)
		assert.ElementsMatch(t, []ecs.EntityId{ph}, collect1[Position](t, entities))

		ecs.No1[Position](entities)
		assert.ElementsMatch(t, []ecs.EntityId{v}, collect1[Velocity](t, entities))
	})

	t.Run("filter is consumed by the query", func(t *testing.T) {
		entities.With(healthId)
		assert.Len(t, collect1[Position](t, entities), 2)
		assert.Len(t, collect1[Position](t, entities), 4)
	})

	t.Run("reset", func(t *testing.T) {
		entities.With(healthId).ResetFilter()
		assert.Len(t, collect1[Position](t, entities), 4)
	})

	t.Run("unregistered filter type", func(t *testing.T) {
		ecs.With1[Name](entities)
		err := ecs.ForEach1(entities, func(ecs.EntityId, *Position) {})
		assert.ErrorIs(t, err, ecs.ErrUnregisteredComponent)
		assert.Len(t, collect1[Position](t, entities), 4)
	})

	t.Run("unknown type ids", func(t *testing.T) {
		entities.Any(2000)
		err := ecs.ForEach1(entities, func(ecs.EntityId, *Position) {})
		assert.ErrorIs(t, err, ecs.ErrUnregisteredComponent)

		entities.No(velId, ecs.MaxComponentTypes-1)
		err = ecs.ForEach1(entities, func(ecs.EntityId, *Position) {})
		assert.ErrorIs(t, err, ecs.ErrUnregisteredComponent)

		assert.Zero(t, entities.With(posId, 999).Count())
		assert.Len(t, collect1[Position](t, entities), 4)
	})

	t.Run("count and matching", func(t *testing.T) {
		assert.Equal(t, 5, entities.Count())
		entities.With(velId)
		assert.Equal(t, 3, entities.Count())

		var ids []ecs.EntityId
		entities.With(healthId)
		for id := range entities.Matching() {
			ids = append(ids, id)
		}
		assert.ElementsMatch(t, []ecs.EntityId{ph, pvh}, ids)
	})

	t.Run("groups created after caching are found", func(t *testing.T) {
		assert.Len(t, collect1[Position](t, entities), 4)
		late := spawn(t, entities, ecs.WithComponent[Position](), ecs.WithComponent[AI]())
		assert.Contains(t, collect1[Position](t, entities), late)
		require.NoError(t, entities.DestroyEntity(late))
	})
}

func TestQueryDisabled(t *testing.T) {
	entities := newTestEntities(t)
	active := spawn(t, entities, ecs.WithComponent[Position]())
	disabled := spawn(t, entities, ecs.WithComponent[Position]())
	require.NoError(t, entities.SetDisabled(disabled, true))

	assert.Equal(t, []ecs.EntityId{active}, collect1[Position](t, entities))

	entities.IncludeDisabled()
	assert.ElementsMatch(t, []ecs.EntityId{active, disabled}, collect1[Position](t, entities))

	ecs.With1[ecs.Disabled](entities)
	assert.Equal(t, []ecs.EntityId{disabled}, collect1[Position](t, entities))

	require.NoError(t, entities.SetDisabled(disabled, false))
	assert.ElementsMatch(t, []ecs.EntityId{active, disabled}, collect1[Position](t, entities))
}

func TestForEachArity(t *testing.T) {
	entities := newTestEntities(t)
	id := spawn(t, entities,
		ecs.WithDefault(Position{X: 1}),
		ecs.WithDefault(Velocity{DX: 2}),
		ecs.WithDefault(Health{Current: 3}),
		ecs.WithDefault(AI{State: 4}),
		ecs.WithDefault(Score(5)),
		ecs.WithComponent[PlayerController]())
	spawn(t, entities, ecs.WithDefault(Position{X: 100}))

	visits := 0
	require.NoError(t, ecs.ForEach6(entities, func(got ecs.EntityId, p *Position, v *Velocity, h *Health, ai *AI, s *Score, _ *PlayerController) {
		visits++
		assert.Equal(t, id, got)
		assert.Equal(t, float32(1), p.X)
		assert.Equal(t, float32(2), v.DX)
		assert.Equal(t, int32(3), h.Current)
		assert.Equal(t, int32(4), ai.State)
		assert.Equal(t, Score(5), *s)
	}))
	assert.Equal(t, 1, visits)

	visits = 0
	require.NoError(t, ecs.ForEach0(entities, func(ecs.EntityId) { visits++ }))
	assert.Equal(t, 2, visits)

	visits = 0
	require.NoError(t, ecs.ForEach3(entities, func(_ ecs.EntityId, p *Position, v *Velocity, _ *PlayerController) {
		visits++
		p.X += v.DX
	}))
	assert.Equal(t, 1, visits)
	pos, _ := ecs.GetComponent[Position](entities, id)
	assert.Equal(t, float32(3), pos.X)

	assert.ErrorIs(t, ecs.ForEach1[Position](entities, nil), ecs.ErrNilCallback)
	assert.ErrorIs(t, ecs.ForEach1(entities, func(ecs.EntityId, *Name) {}), ecs.ErrUnregisteredComponent)
}

func TestForEachSpansChunks(t *testing.T) {
	opts := ecs.DefaultOptions()
	opts.ChunkSize = 256
	opts.Debug = true
	entities := ecs.NewEntitiesWithOptions(newTestRegistry(), opts)
	defer entities.Dispose()

	for i := range 1000 {
		spawn(t, entities, ecs.WithDefault(Position{X: float32(i)}))
	}
	stats := entities.CollectStats()
	require.Greater(t, stats.ChunkCount, 1)

	var sum float32
	require.NoError(t, ecs.ForEach1(entities, func(_ ecs.EntityId, p *Position) { sum += p.X }))
	assert.Equal(t, float32(999*1000/2), sum)

	var parallel atomic.Int64
	require.NoError(t, ecs.ParallelForEach1(entities, func(_ ecs.EntityId, p *Position) {
		parallel.Add(int64(p.X))
	}))
	assert.Equal(t, int64(999*1000/2), parallel.Load())
}

func TestParallelForEach(t *testing.T) {
	entities := newTestEntities(t)
	for i := range 5000 {
		spawn(t, entities, ecs.WithDefault(Position{X: float32(i)}), ecs.WithDefault(Velocity{DX: 1, DY: 2}))
	}
	spawn(t, entities, ecs.WithDefault(Position{X: -1}))

	var visits atomic.Int64
	require.NoError(t, ecs.ParallelForEach2(entities, func(_ ecs.EntityId, p *Position, v *Velocity) {
		p.X += v.DX
		p.Y += v.DY
		visits.Add(1)
	}))
	assert.Equal(t, int64(5000), visits.Load())

	require.NoError(t, ecs.ForEach2(entities, func(_ ecs.EntityId, p *Position, _ *Velocity) {
		assert.Equal(t, float32(2), p.Y)
	}))

	visits.Store(0)
	require.NoError(t, ecs.ParallelForEach0(entities, func(ecs.EntityId) { visits.Add(1) }))
	assert.Equal(t, int64(5001), visits.Load())
}

func TestCallbackPanics(t *testing.T) {
	t.Run("logged and skipped in production mode", func(t *testing.T) {
		var buf bytes.Buffer
		opts := ecs.DefaultOptions()
		opts.Logger = zerolog.New(&buf)
		entities := ecs.NewEntitiesWithOptions(newTestRegistry(), opts)
		defer entities.Dispose()

		var ids []ecs.EntityId
		for range 5 {
			ids = append(ids, spawn(t, entities, ecs.WithComponent[Position]()))
		}

		visited := 0
		require.NoError(t, ecs.ForEach1(entities, func(id ecs.EntityId, _ *Position) {
			visited++
			if id == ids[1] || id == ids[3] {
				panic("boom")
			}
		}))
		assert.Equal(t, 5, visited)
		assert.Contains(t, buf.String(), "query callback panicked")

		// The iteration guard is released after a recovered panic.
		assert.NoError(t, entities.DestroyEntity(ids[0]))

		var parallelVisits atomic.Int32
		require.NoError(t, ecs.ParallelForEach1(entities, func(_ ecs.EntityId, _ *Position) {
			parallelVisits.Add(1)
			panic("boom")
		}))
		assert.Equal(t, int32(4), parallelVisits.Load())
	})

	t.Run("propagated in debug mode", func(t *testing.T) {
		entities := newTestEntities(t)
		id := spawn(t, entities, ecs.WithComponent[Position]())

		assert.PanicsWithValue(t, "boom", func() {
			_ = ecs.ForEach1(entities, func(ecs.EntityId, *Position) { panic("boom") })
		})
		assert.PanicsWithValue(t, "boom", func() {
			_ = ecs.ParallelForEach1(entities, func(ecs.EntityId, *Position) { panic("boom") })
		})

		assert.NoError(t, entities.DestroyEntity(id))
	})
}
