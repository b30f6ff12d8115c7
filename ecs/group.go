package ecs

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

type column struct {
	typeId ComponentTypeId
	size   uintptr
	offset uintptr
}

// EntityGroup stores every entity of one archetype in fixed-size chunks. Within
// each chunk the live rows form a dense prefix.
type EntityGroup struct {
	archetype Archetype
	index     int
	columns   []column
	// columnOf maps a type id to its index in columns, -1 when absent or zero-sized.
	columnOf  []int16
	chunkSize int
	capacity  int
	chunks    []*chunk
	firstFree int
	count     int
}

func newEntityGroup(reg *TypeRegistry, archetype Archetype, chunkSize int) (*EntityGroup, error) {
	g := &EntityGroup{
		archetype: archetype,
		chunkSize: chunkSize,
	}

	var maxId ComponentTypeId
	var rowSize uintptr
	var aligns []uintptr
	for id := range archetype.Types() {
		maxId = id
		t := reg.typeInfo(id)
		if t.ZeroSized {
			continue
		}
		g.columns = append(g.columns, column{typeId: id, size: t.Size})
		aligns = append(aligns, t.Align)
		rowSize += t.Size
	}

	g.columnOf = make([]int16, int(maxId)+1)
	for i := range g.columnOf {
		g.columnOf[i] = -1
	}
	for i, col := range g.columns {
		g.columnOf[col.typeId] = int16(i)
	}

	capacity := (uintptr(chunkSize) - chunkHeaderSize) / (entityIdSize + rowSize)
	for ; capacity > 0; capacity-- {
		if g.layout(capacity, aligns) <= uintptr(chunkSize) {
			break
		}
	}
	if capacity == 0 {
		return nil, eris.Wrapf(ErrComponentTooLarge, "archetype %s needs %d bytes per entity, chunk is %d bytes",
			archetype, entityIdSize+rowSize, chunkSize)
	}
	g.capacity = int(capacity)
	return g, nil
}

// layout assigns column offsets for the given capacity and returns the end offset.
func (g *EntityGroup) layout(capacity uintptr, aligns []uintptr) uintptr {
	offset := chunkHeaderSize + capacity*entityIdSize
	for i := range g.columns {
		a := aligns[i]
		offset = (offset + a - 1) &^ (a - 1)
		g.columns[i].offset = offset
		offset += capacity * g.columns[i].size
	}
	return offset
}

// Archetype returns the set of types stored by the group.
func (g *EntityGroup) Archetype() Archetype {
	return g.archetype
}

// Index is the position of the group in creation order.
func (g *EntityGroup) Index() int {
	return g.index
}

// Len returns the number of live entities in the group.
func (g *EntityGroup) Len() int {
	return g.count
}

// ChunkCapacity returns the number of entities a single chunk holds.
func (g *EntityGroup) ChunkCapacity() int {
	return g.capacity
}

// ChunkCount returns the number of allocated chunks.
func (g *EntityGroup) ChunkCount() int {
	return len(g.chunks)
}

// column returns the column storing id, or nil for absent and zero-sized types.
func (g *EntityGroup) column(id ComponentTypeId) *column {
	if int(id) >= len(g.columnOf) {
		return nil
	}
	i := g.columnOf[id]
	if i < 0 {
		return nil
	}
	return &g.columns[i]
}

// AllocateSlot reserves a zeroed row for id in the first chunk with room,
// appending a chunk when all are full.
func (g *EntityGroup) AllocateSlot(id EntityId) (chunkIndex, slot int) {
	for g.firstFree < len(g.chunks) && g.chunks[g.firstFree].len() == g.capacity {
		g.firstFree++
	}
	if g.firstFree == len(g.chunks) {
		g.chunks = append(g.chunks, newChunk(g.chunkSize))
	}

	chunkIndex = g.firstFree
	c := g.chunks[chunkIndex]
	slot = c.len()
	c.setEntity(slot, id)
	for i := range g.columns {
		clear(c.bytes(&g.columns[i], slot))
	}
	*c.liveCount()++
	g.count++
	return chunkIndex, slot
}

// Remove frees the row at (chunkIndex, slot). If another entity's row was moved
// into the hole to keep the chunk dense, that entity's id is returned; otherwise 0.
func (g *EntityGroup) Remove(chunkIndex, slot int) EntityId {
	c := g.chunks[chunkIndex]
	last := c.len() - 1
	*c.liveCount()--
	g.count--
	if chunkIndex < g.firstFree {
		g.firstFree = chunkIndex
	}

	if slot == last {
		return 0
	}

	moved := c.entityAt(last)
	c.setEntity(slot, moved)
	for i := range g.columns {
		col := &g.columns[i]
		copy(c.bytes(col, slot), c.bytes(col, last))
	}
	return moved
}

// EntityAt returns the id stored at (chunkIndex, slot).
func (g *EntityGroup) EntityAt(chunkIndex, slot int) EntityId {
	return g.chunks[chunkIndex].entityAt(slot)
}

func (g *EntityGroup) pointer(ref EntityReference, id ComponentTypeId) unsafe.Pointer {
	col := g.column(id)
	if col == nil {
		return zeroSizedBase
	}
	return g.chunks[ref.Chunk].at(col, int(ref.Slot))
}

// copyShared copies every column the two groups have in common from src's row
// into dst's row.
func copyShared(dst *EntityGroup, dstRef EntityReference, src *EntityGroup, srcRef EntityReference) {
	dc := dst.chunks[dstRef.Chunk]
	sc := src.chunks[srcRef.Chunk]
	for i := range dst.columns {
		col := &dst.columns[i]
		scol := src.column(col.typeId)
		if scol == nil {
			continue
		}
		copy(dc.bytes(col, int(dstRef.Slot)), sc.bytes(scol, int(srcRef.Slot)))
	}
}

func (g *EntityGroup) release() {
	g.chunks = nil
	g.count = 0
	g.firstFree = 0
}
