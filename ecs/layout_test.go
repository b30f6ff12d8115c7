package ecs_test

import (
	"testing"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		entities := newTestEntities(t)
		layout, err := ecs.NewLayout(entities.Registry(),
			ecs.WithDefault(Health{Current: 100, Max: 100}),
			ecs.WithComponent[Position](),
			ecs.WithComponent[PlayerController]())
		require.NoError(t, err)
		assert.Equal(t, 3, layout.Len())

		a, err := entities.CreateEntityWithLayout(layout)
		require.NoError(t, err)
		b, err := entities.CreateEntityWithLayout(layout)
		require.NoError(t, err)

		archA, _ := entities.ArchetypeOf(a)
		assert.Equal(t, layout.Archetype(), archA)

		ha, _ := ecs.GetComponent[Health](entities, a)
		ha.Current = 1
		hb, _ := ecs.GetComponent[Health](entities, b)
		assert.Equal(t, Health{Current: 100, Max: 100}, *hb)
	})

	t.Run("last default wins", func(t *testing.T) {
		entities := newTestEntities(t)
		id := spawn(t, entities, ecs.WithDefault(Score(1)), ecs.WithDefault(Score(2)))
		score, err := ecs.GetComponent[Score](entities, id)
		require.NoError(t, err)
		assert.Equal(t, Score(2), *score)
	})

	t.Run("registers unknown types", func(t *testing.T) {
		registry := ecs.NewTypeRegistry()
		layout, err := ecs.NewLayout(registry, ecs.WithComponent[Velocity]())
		require.NoError(t, err)
		id, ok := ecs.ComponentTypeIdOf[Velocity](registry)
		assert.True(t, ok)
		assert.True(t, layout.Archetype().Contains(id))
	})

	t.Run("rejects managed types", func(t *testing.T) {
		_, err := ecs.NewLayout(ecs.NewTypeRegistry(), ecs.WithComponent[Name]())
		assert.ErrorIs(t, err, ecs.ErrManagedComponent)
	})

	t.Run("empty layout", func(t *testing.T) {
		entities := newTestEntities(t)
		layout, err := ecs.NewLayout(entities.Registry())
		require.NoError(t, err)
		id, err := entities.CreateEntityWithLayout(layout)
		require.NoError(t, err)
		ref, ok := entities.Location(id)
		assert.True(t, ok)
		assert.Nil(t, ref.Group)
	})
}
