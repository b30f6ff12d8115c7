package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec2 struct {
	X, Y float32
}

type flags struct {
	Bits uint8
}

type wide struct {
	Value int64
}

type marker struct{}

func newGroup(t *testing.T, chunkSize int, register ...func(*TypeRegistry) ComponentTypeId) (*EntityGroup, []ComponentTypeId) {
	t.Helper()
	reg := NewTypeRegistry()
	var ids []ComponentTypeId
	for _, r := range register {
		ids = append(ids, r(reg))
	}
	g, err := newEntityGroup(reg, NewArchetype(ids...), chunkSize)
	require.NoError(t, err)
	return g, ids
}

func TestEntityGroupLayout(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		g, _ := newGroup(t, DefaultChunkSize, MustRegisterComponent[vec2])
		assert.Equal(t, (DefaultChunkSize-chunkHeaderSize)/(4+8), g.ChunkCapacity())
	})

	t.Run("columns are aligned", func(t *testing.T) {
		g, ids := newGroup(t, DefaultChunkSize, MustRegisterComponent[flags], MustRegisterComponent[wide])
		require.Len(t, g.columns, 2)
		assert.Zero(t, g.column(ids[1]).offset%8)
		end := g.column(ids[1]).offset + uintptr(g.capacity)*8
		assert.LessOrEqual(t, end, uintptr(DefaultChunkSize))
	})

	t.Run("zero-sized types take no column", func(t *testing.T) {
		g, ids := newGroup(t, DefaultChunkSize, MustRegisterComponent[vec2], MustRegisterComponent[marker])
		assert.Len(t, g.columns, 1)
		assert.Nil(t, g.column(ids[1]))
		assert.True(t, g.Archetype().Contains(ids[1]))
	})

	t.Run("row larger than a chunk", func(t *testing.T) {
		reg := NewTypeRegistry()
		id := MustRegisterComponent[[256]byte](reg)
		_, err := newEntityGroup(reg, NewArchetype(id), 128)
		assert.ErrorIs(t, err, ErrComponentTooLarge)
	})
}

func TestEntityGroupSwapRemove(t *testing.T) {
	g, ids := newGroup(t, DefaultChunkSize, MustRegisterComponent[vec2])
	col := g.column(ids[0])

	for i := range 4 {
		c, slot := g.AllocateSlot(EntityId(i + 1))
		assert.Equal(t, 0, c)
		assert.Equal(t, i, slot)
		*(*vec2)(g.chunks[0].at(col, slot)) = vec2{X: float32(i + 1)}
	}
	require.Equal(t, 4, g.Len())

	// Removing a middle row moves the last row into it.
	moved := g.Remove(0, 1)
	assert.Equal(t, EntityId(4), moved)
	assert.Equal(t, 3, g.chunks[0].len())
	assert.Equal(t, EntityId(4), g.EntityAt(0, 1))
	assert.Equal(t, vec2{X: 4}, *(*vec2)(g.chunks[0].at(col, 1)))

	// Removing the last row moves nothing.
	assert.Equal(t, InvalidEntityId, g.Remove(0, 2))
	assert.Equal(t, 2, g.chunks[0].len())
	assert.Equal(t, []EntityId{1, 4}, g.chunks[0].ids())

	// Freed rows are reused and come back zeroed.
	c, slot := g.AllocateSlot(9)
	assert.Equal(t, 0, c)
	assert.Equal(t, 2, slot)
	assert.Equal(t, vec2{}, *(*vec2)(g.chunks[0].at(col, slot)))
}

func TestEntityGroupChunks(t *testing.T) {
	g, _ := newGroup(t, 64, MustRegisterComponent[vec2])
	capacity := g.ChunkCapacity()
	require.Equal(t, (64-chunkHeaderSize)/12, capacity)

	for i := range capacity*2 + 1 {
		g.AllocateSlot(EntityId(i + 1))
	}
	assert.Equal(t, 3, g.ChunkCount())
	assert.Equal(t, capacity*2+1, g.Len())

	// A hole in the first chunk is filled before later chunks.
	g.Remove(0, 0)
	c, _ := g.AllocateSlot(100)
	assert.Equal(t, 0, c)
	c, _ = g.AllocateSlot(101)
	assert.Equal(t, 2, c)
}
