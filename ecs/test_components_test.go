package ecs_test

import (
	"testing"

	"github.com/plus3/ecscore/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int32
	Max     int32
}

type PlayerController struct{}

type AI struct {
	State int32
}

// Custom primitive types for testing non-struct components
type Score int32
type Temperature float64

// Components used by the layout scenario
type A struct {
	Value int32
}

type B struct {
	X, Y, Z int32
}

type C struct {
	Values [3]int32
}

type D struct{}

// Types the registry must reject
type Name struct {
	Value string
}

type Inventory struct {
	Items []int32
}

type Link struct {
	Next *Position
}

func newTestRegistry() *ecs.TypeRegistry {
	registry := ecs.NewTypeRegistry()
	ecs.MustRegisterComponent[Position](registry)
	ecs.MustRegisterComponent[Velocity](registry)
	ecs.MustRegisterComponent[Health](registry)
	ecs.MustRegisterComponent[PlayerController](registry)
	ecs.MustRegisterComponent[AI](registry)
	ecs.MustRegisterComponent[Score](registry)
	ecs.MustRegisterComponent[Temperature](registry)
	ecs.MustRegisterComponent[A](registry)
	ecs.MustRegisterComponent[B](registry)
	ecs.MustRegisterComponent[C](registry)
	ecs.MustRegisterComponent[D](registry)
	return registry
}

func newTestEntities(t testing.TB) *ecs.Entities {
	t.Helper()
	opts := ecs.DefaultOptions()
	opts.Debug = true
	opts.Logger = zerolog.Nop()
	entities := ecs.NewEntitiesWithOptions(newTestRegistry(), opts)
	t.Cleanup(entities.Dispose)
	return entities
}

func spawn(t testing.TB, entities *ecs.Entities, components ...ecs.LayoutComponent) ecs.EntityId {
	t.Helper()
	layout, err := ecs.NewLayout(entities.Registry(), components...)
	require.NoError(t, err)
	id, err := entities.CreateEntityWithLayout(layout)
	require.NoError(t, err)
	return id
}
