package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// AddComponent gives id a component of type T set to value. If id already has
// a T it is overwritten in place and no add event is published.
func AddComponent[T any](e *Entities, id EntityId, value T) error {
	typeId, err := typeIdFor[T](e)
	if err != nil {
		return err
	}
	if err := e.checkStructural(); err != nil {
		return err
	}
	ref, err := e.lookup(id)
	if err != nil {
		return err
	}

	if ref.Group != nil && ref.Group.archetype.Contains(typeId) {
		*(*T)(ref.Group.pointer(ref, typeId)) = value
		return nil
	}

	dst, err := e.move(id, ref, archetypeOf(ref).With(typeId))
	if err != nil {
		return err
	}
	*(*T)(dst.Group.pointer(dst, typeId)) = value
	e.publishAdded(id, NewArchetype(typeId))
	return nil
}

// RemoveComponent strips T from id. Removing a component the entity does not
// have is a no-op.
func RemoveComponent[T any](e *Entities, id EntityId) error {
	typeId, err := typeIdFor[T](e)
	if err != nil {
		return err
	}
	if err := e.checkStructural(); err != nil {
		return err
	}
	ref, err := e.lookup(id)
	if err != nil {
		return err
	}

	if ref.Group == nil || !ref.Group.archetype.Contains(typeId) {
		return nil
	}

	removed := e.snapshotRemoved(ref, NewArchetype(typeId))
	if _, err := e.move(id, ref, ref.Group.archetype.Without(typeId)); err != nil {
		return err
	}
	e.publishRemoved(id, removed)
	return nil
}

// ApplyLayout adds every component of layout to id and sets them all to the
// layout's defaults, including components id already had.
func (e *Entities) ApplyLayout(id EntityId, layout *Layout) error {
	if layout == nil {
		return ErrNilLayout
	}
	if err := e.checkStructural(); err != nil {
		return err
	}
	ref, err := e.lookup(id)
	if err != nil {
		return err
	}

	current := archetypeOf(ref)
	target := current.Union(layout.archetype)
	if target != current {
		if ref, err = e.move(id, ref, target); err != nil {
			return err
		}
	}
	if ref.Group != nil {
		layout.write(ref.Group, ref)
	}
	e.publishAdded(id, layout.archetype.Difference(current))
	return nil
}

// SetDisabled adds or removes the Disabled tag on id.
func (e *Entities) SetDisabled(id EntityId, disabled bool) error {
	if disabled {
		return AddComponent(e, id, Disabled{})
	}
	return RemoveComponent[Disabled](e, id)
}

// IsDisabled reports whether id carries the Disabled tag.
func (e *Entities) IsDisabled(id EntityId) bool {
	ref, ok := e.Location(id)
	return ok && ref.Group != nil && ref.Group.archetype.Contains(DisabledTypeId)
}

// move relocates id from ref into the group for target, carrying over the
// values of every component both archetypes share. An empty target leaves the
// entity without a group.
func (e *Entities) move(id EntityId, ref EntityReference, target Archetype) (EntityReference, error) {
	var dst EntityReference
	if !target.IsEmpty() {
		g, err := e.groups.resolve(target)
		if err != nil {
			return EntityReference{}, err
		}
		dst = e.allocate(g, id)
		if ref.Group != nil {
			copyShared(g, dst, ref.Group, ref)
		}
	}
	if ref.Group != nil {
		e.free(ref)
	}
	e.locations.put(id, dst)
	e.version++
	return dst, nil
}

func archetypeOf(ref EntityReference) Archetype {
	if ref.Group == nil {
		return Archetype{}
	}
	return ref.Group.archetype
}

func typeIdFor[T any](e *Entities) (ComponentTypeId, error) {
	t := reflect.TypeFor[T]()
	id, ok := e.registry.idOf(t)
	if !ok {
		return 0, eris.Wrapf(ErrUnregisteredComponent, "%s", t)
	}
	return id, nil
}
