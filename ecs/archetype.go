package ecs

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"
)

const archetypeWords = 16

// Archetype is the set of component types an entity holds, stored as a bitset.
// Bit i of word w marks type w*64+i. Archetypes are values: they compare with ==
// and can be used as map keys, with trailing zero words never affecting equality.
type Archetype struct {
	words [archetypeWords]uint64
	depth uint8
}

// NewArchetype builds an archetype holding the given type ids.
func NewArchetype(ids ...ComponentTypeId) Archetype {
	var a Archetype
	for _, id := range ids {
		a.set(id)
	}
	return a
}

func (a *Archetype) set(id ComponentTypeId) {
	w := int(id) >> 6
	a.words[w] |= 1 << (id & 63)
	if w >= int(a.depth) {
		a.depth = uint8(w + 1)
	}
}

func (a *Archetype) clear(id ComponentTypeId) {
	w := int(id) >> 6
	a.words[w] &^= 1 << (id & 63)
	a.trim()
}

// trim drops trailing zero words from depth.
func (a *Archetype) trim() {
	for a.depth > 0 && a.words[a.depth-1] == 0 {
		a.depth--
	}
}

// Depth is the number of words up to and including the highest non-zero one.
func (a Archetype) Depth() int {
	return int(a.depth)
}

// Contains reports whether id is in the set.
func (a Archetype) Contains(id ComponentTypeId) bool {
	w := int(id) >> 6
	if w >= int(a.depth) {
		return false
	}
	return a.words[w]&(1<<(id&63)) != 0
}

// With returns a copy of a with id added.
func (a Archetype) With(id ComponentTypeId) Archetype {
	a.set(id)
	return a
}

// Without returns a copy of a with id removed.
func (a Archetype) Without(id ComponentTypeId) Archetype {
	if int(id)>>6 < int(a.depth) {
		a.clear(id)
	}
	return a
}

// Union returns a ∪ b.
func (a Archetype) Union(b Archetype) Archetype {
	for i := range b.depth {
		a.words[i] |= b.words[i]
	}
	a.depth = max(a.depth, b.depth)
	return a
}

// Intersect returns a ∩ b.
func (a Archetype) Intersect(b Archetype) Archetype {
	var out Archetype
	n := min(a.depth, b.depth)
	for i := range n {
		out.words[i] = a.words[i] & b.words[i]
	}
	out.depth = n
	out.trim()
	return out
}

// Difference returns the types of a that are not in b.
func (a Archetype) Difference(b Archetype) Archetype {
	for i := range min(a.depth, b.depth) {
		a.words[i] &^= b.words[i]
	}
	a.trim()
	return a
}

// ContainsAll reports whether every type of other is in a.
func (a Archetype) ContainsAll(other Archetype) bool {
	if other.depth > a.depth {
		return false
	}
	for i := range other.depth {
		if a.words[i]&other.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// ContainsAny reports whether a and other share at least one type.
func (a Archetype) ContainsAny(other Archetype) bool {
	n := min(a.depth, other.depth)
	for i := range n {
		if a.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// ContainsNone reports whether a and other are disjoint.
func (a Archetype) ContainsNone(other Archetype) bool {
	return !a.ContainsAny(other)
}

// IsEmpty reports whether the set holds no types.
func (a Archetype) IsEmpty() bool {
	return a.depth == 0
}

// Equal reports whether a and other hold the same types.
func (a Archetype) Equal(other Archetype) bool {
	return a == other
}

// Count returns the number of types in the set.
func (a Archetype) Count() int {
	n := 0
	for i := range a.depth {
		n += bits.OnesCount64(a.words[i])
	}
	return n
}

// Types yields the type ids of the set in ascending order.
func (a Archetype) Types() iter.Seq[ComponentTypeId] {
	return func(yield func(ComponentTypeId) bool) {
		for w := range a.depth {
			word := a.words[w]
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				if !yield(ComponentTypeId(int(w)*64 + bit)) {
					return
				}
				word &= word - 1
			}
		}
	}
}

// TypeIds returns the type ids of the set in ascending order.
func (a Archetype) TypeIds() []ComponentTypeId {
	ids := make([]ComponentTypeId, 0, a.Count())
	for id := range a.Types() {
		ids = append(ids, id)
	}
	return ids
}

func (a Archetype) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for id := range a.Types() {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.Itoa(int(id)))
	}
	sb.WriteByte('}')
	return sb.String()
}
