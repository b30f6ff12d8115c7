package ecs

import (
	"cmp"
	"slices"
	"unsafe"
)

// Layout is a reusable template of components with default values, used to
// create entities or extend existing ones in a single structural change.
type Layout struct {
	archetype Archetype
	entries   []layoutEntry
}

type layoutEntry struct {
	typeId ComponentTypeId
	value  []byte
}

// LayoutComponent contributes one component to a Layout.
type LayoutComponent func(r *TypeRegistry) (layoutEntry, error)

// WithDefault adds T to a layout with value as its default.
func WithDefault[T any](value T) LayoutComponent {
	return func(r *TypeRegistry) (layoutEntry, error) {
		id, err := RegisterComponent[T](r)
		if err != nil {
			return layoutEntry{}, err
		}
		entry := layoutEntry{typeId: id}
		if unsafe.Sizeof(value) > 0 {
			entry.value = slices.Clone(asBytes(&value))
		}
		return entry, nil
	}
}

// WithComponent adds T to a layout with its zero value as the default.
func WithComponent[T any]() LayoutComponent {
	var zero T
	return WithDefault(zero)
}

// NewLayout builds a layout from components. Types that are not yet known to
// the registry are registered. When a type is given twice the last default wins.
func NewLayout(r *TypeRegistry, components ...LayoutComponent) (*Layout, error) {
	l := &Layout{}
	for _, add := range components {
		entry, err := add(r)
		if err != nil {
			return nil, err
		}
		if l.archetype.Contains(entry.typeId) {
			i := slices.IndexFunc(l.entries, func(e layoutEntry) bool { return e.typeId == entry.typeId })
			l.entries[i] = entry
			continue
		}
		l.archetype.set(entry.typeId)
		l.entries = append(l.entries, entry)
	}
	slices.SortFunc(l.entries, func(a, b layoutEntry) int { return cmp.Compare(a.typeId, b.typeId) })
	return l, nil
}

// Archetype returns the set of component types in the layout.
func (l *Layout) Archetype() Archetype {
	return l.archetype
}

// Len returns the number of component types in the layout.
func (l *Layout) Len() int {
	return len(l.entries)
}

// write stores the layout defaults into the row at ref.
func (l *Layout) write(g *EntityGroup, ref EntityReference) {
	c := g.chunks[ref.Chunk]
	for _, entry := range l.entries {
		if entry.value == nil {
			continue
		}
		copy(c.bytes(g.column(entry.typeId), int(ref.Slot)), entry.value)
	}
}
