package ecs

import "unsafe"

const (
	// DefaultChunkSize is the byte size of a chunk unless Options say otherwise.
	DefaultChunkSize = 16 * 1024

	chunkHeaderSize = 8
	entityIdSize    = uintptr(unsafe.Sizeof(EntityId(0)))
)

// chunk is a fixed-size block of memory holding the rows of up to capacity
// entities of one group: a header with the live count, the entity id column and
// one column per non-zero-sized component.
type chunk struct {
	words []uint64
	base  unsafe.Pointer
}

func newChunk(size int) *chunk {
	words := make([]uint64, (size+7)/8)
	return &chunk{
		words: words,
		base:  unsafe.Pointer(&words[0]),
	}
}

func (c *chunk) liveCount() *uint32 {
	return (*uint32)(c.base)
}

func (c *chunk) len() int {
	return int(*c.liveCount())
}

func (c *chunk) entityAt(slot int) EntityId {
	return *(*EntityId)(unsafe.Add(c.base, chunkHeaderSize+uintptr(slot)*entityIdSize))
}

func (c *chunk) setEntity(slot int, id EntityId) {
	*(*EntityId)(unsafe.Add(c.base, chunkHeaderSize+uintptr(slot)*entityIdSize)) = id
}

// ids returns the live prefix of the entity id column.
func (c *chunk) ids() []EntityId {
	return unsafe.Slice((*EntityId)(unsafe.Add(c.base, chunkHeaderSize)), c.len())
}

func (c *chunk) at(col *column, slot int) unsafe.Pointer {
	return unsafe.Add(c.base, col.offset+uintptr(slot)*col.size)
}

func (c *chunk) bytes(col *column, slot int) []byte {
	return unsafe.Slice((*byte)(c.at(col, slot)), col.size)
}

// cursor returns a strided view over column col, or over the shared zero-size
// base when col is nil.
func (c *chunk) cursor(col *column) columnCursor {
	if col == nil {
		return columnCursor{base: zeroSizedBase}
	}
	return columnCursor{base: unsafe.Add(c.base, col.offset), stride: col.size}
}

var zeroSizedValue struct{}

// zeroSizedBase is handed out for every zero-sized component. It must never be written through.
var zeroSizedBase = unsafe.Pointer(&zeroSizedValue)

type columnCursor struct {
	base   unsafe.Pointer
	stride uintptr
}

func (c columnCursor) at(slot int) unsafe.Pointer {
	return unsafe.Add(c.base, uintptr(slot)*c.stride)
}

func asBytes[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}
