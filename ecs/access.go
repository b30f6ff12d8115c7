package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// GetComponent returns a pointer to id's T. The pointer is only valid until the
// next structural change; hold a Ref when that cannot be guaranteed.
func GetComponent[T any](e *Entities, id EntityId) (*T, error) {
	typeId, err := typeIdFor[T](e)
	if err != nil {
		return nil, err
	}
	ref, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	if ref.Group == nil || !ref.Group.archetype.Contains(typeId) {
		return nil, eris.Wrapf(ErrComponentNotFound, "%s on entity %d", reflect.TypeFor[T](), id)
	}
	return (*T)(ref.Group.pointer(ref, typeId)), nil
}

// TryGetComponent is GetComponent without the error. It returns nil, false when
// the entity is not alive or lacks T.
func TryGetComponent[T any](e *Entities, id EntityId) (*T, bool) {
	typeId, ok := e.registry.idOf(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	ref, ok := e.Location(id)
	if !ok || ref.Group == nil || !ref.Group.archetype.Contains(typeId) {
		return nil, false
	}
	return (*T)(ref.Group.pointer(ref, typeId)), true
}

// HasComponent reports whether id is alive and holds a T.
func HasComponent[T any](e *Entities, id EntityId) bool {
	typeId, ok := e.registry.idOf(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	ref, ok := e.Location(id)
	return ok && ref.Group != nil && ref.Group.archetype.Contains(typeId)
}

// ComponentValue returns a copy of the component registered under typeId.
// It is meant for tooling that does not know component types statically.
func (e *Entities) ComponentValue(id EntityId, typeId ComponentTypeId) (any, error) {
	ref, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	t, ok := e.registry.Type(typeId)
	if !ok {
		return nil, eris.Wrapf(ErrUnregisteredComponent, "type id %d", typeId)
	}
	if ref.Group == nil || !ref.Group.archetype.Contains(typeId) {
		return nil, eris.Wrapf(ErrComponentNotFound, "%s on entity %d", t.Name, id)
	}
	return reflect.NewAt(t.typ, ref.Group.pointer(ref, typeId)).Elem().Interface(), nil
}

// Ref is a checked borrow of a component. It detects structural changes made
// after it was taken, after which the underlying row may belong to another entity.
type Ref[T any] struct {
	e       *Entities
	ptr     *T
	version uint64
}

// GetRef borrows id's T.
func GetRef[T any](e *Entities, id EntityId) (Ref[T], error) {
	ptr, err := GetComponent[T](e, id)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{e: e, ptr: ptr, version: e.version}, nil
}

// Get returns the borrowed pointer, or ErrStaleReference once any structural
// change has happened since the borrow.
func (r Ref[T]) Get() (*T, error) {
	if !r.Valid() {
		return nil, ErrStaleReference
	}
	return r.ptr, nil
}

// Valid reports whether Get would succeed.
func (r Ref[T]) Valid() bool {
	return r.e != nil && r.e.version == r.version
}
