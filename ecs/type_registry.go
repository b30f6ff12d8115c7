package ecs

import (
	"math"
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// ComponentTypeId is the dense, registry-assigned identifier of a component type.
type ComponentTypeId uint16

const (
	// MaxComponentTypes is the largest number of component types a registry can hold.
	MaxComponentTypes = archetypeWords * 64
	// MaxComponentSize is the largest component size in bytes.
	MaxComponentSize = math.MaxUint16
)

// Disabled is the built-in tag component. Queries skip entities carrying it
// unless IncludeDisabled is requested.
type Disabled struct{}

// DisabledTypeId is the id of the Disabled tag in every registry.
const DisabledTypeId ComponentTypeId = 0

// ComponentType describes a registered component type.
type ComponentType struct {
	Id        ComponentTypeId
	Name      string
	Size      uintptr
	Align     uintptr
	ZeroSized bool

	typ reflect.Type
}

// Reflect returns the Go type backing the component.
func (c ComponentType) Reflect() reflect.Type {
	return c.typ
}

// TypeRegistry assigns ComponentTypeIds to Go types. Each Entities instance is
// built on a registry, and several instances may share one. Registration is safe
// for concurrent use but must not race with queries on entities using the registry.
type TypeRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]ComponentTypeId
	byName map[string]ComponentTypeId
	// shared holds names claimed by more than one type; Lookup refuses them.
	shared map[string]struct{}
	types  []ComponentType
	limit  int
}

// NewTypeRegistry creates a registry with room for MaxComponentTypes types.
func NewTypeRegistry() *TypeRegistry {
	return NewTypeRegistryWithLimit(MaxComponentTypes)
}

// NewTypeRegistryWithLimit creates a registry that accepts at most limit types,
// Disabled included. Limits above MaxComponentTypes are clamped.
func NewTypeRegistryWithLimit(limit int) *TypeRegistry {
	if limit <= 0 || limit > MaxComponentTypes {
		limit = MaxComponentTypes
	}

	r := &TypeRegistry{
		byType: make(map[reflect.Type]ComponentTypeId),
		byName: make(map[string]ComponentTypeId),
		shared: make(map[string]struct{}),
		limit:  limit,
	}
	if _, err := register(r, reflect.TypeFor[Disabled]()); err != nil {
		panic(err)
	}
	return r
}

// RegisterComponent registers T and returns its id. Registering the same type
// again returns the id it was first given.
func RegisterComponent[T any](r *TypeRegistry) (ComponentTypeId, error) {
	return register(r, reflect.TypeFor[T]())
}

// MustRegisterComponent is like RegisterComponent but panics on failure.
func MustRegisterComponent[T any](r *TypeRegistry) ComponentTypeId {
	id, err := RegisterComponent[T](r)
	if err != nil {
		panic(err)
	}
	return id
}

// ComponentTypeIdOf returns the id of T if it has been registered.
func ComponentTypeIdOf[T any](r *TypeRegistry) (ComponentTypeId, bool) {
	return r.idOf(reflect.TypeFor[T]())
}

func register(r *TypeRegistry, t reflect.Type) (ComponentTypeId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byType[t]; ok {
		return id, nil
	}

	if len(r.types) >= r.limit {
		return 0, eris.Wrapf(ErrTypeCapacityExceeded, "registering %s: limit is %d", t, r.limit)
	}
	if t.Size() > MaxComponentSize {
		return 0, eris.Wrapf(ErrComponentTooLarge, "%s is %d bytes", t, t.Size())
	}
	if containsPointers(t) {
		return 0, eris.Wrapf(ErrManagedComponent, "%s", t)
	}

	id := ComponentTypeId(len(r.types))
	r.types = append(r.types, ComponentType{
		Id:        id,
		Name:      t.String(),
		Size:      t.Size(),
		Align:     uintptr(t.Align()),
		ZeroSized: t.Size() == 0,
		typ:       t,
	})
	r.byType[t] = id
	r.indexName(t.String(), id)
	if qualified := t.PkgPath() + "." + t.Name(); t.PkgPath() != "" && qualified != t.String() {
		r.indexName(qualified, id)
	}
	return id, nil
}

func (r *TypeRegistry) indexName(name string, id ComponentTypeId) {
	if _, ok := r.shared[name]; ok {
		return
	}
	if _, ok := r.byName[name]; ok {
		delete(r.byName, name)
		r.shared[name] = struct{}{}
		return
	}
	r.byName[name] = id
}

func (r *TypeRegistry) idOf(t reflect.Type) (ComponentTypeId, bool) {
	r.mu.RLock()
	id, ok := r.byType[t]
	r.mu.RUnlock()
	return id, ok
}

// Type returns the metadata of the type registered under id.
func (r *TypeRegistry) Type(id ComponentTypeId) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.types) {
		return ComponentType{}, false
	}
	return r.types[id], true
}

// Lookup finds a registered type by its Go type name, e.g. "game.Position", or
// by its import-path qualified name, e.g. "example.com/game.Position". A name
// shared by several registered types matches none of them.
func (r *TypeRegistry) Lookup(name string) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return ComponentType{}, false
	}
	return r.types[id], true
}

// Types returns a snapshot of every registered type ordered by id.
func (r *TypeRegistry) Types() []ComponentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ComponentType, len(r.types))
	copy(out, r.types)
	return out
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// typeInfo returns the entry for an id the registry has already handed out.
// Entries are append-only, so the pointer stays valid after later registrations.
func (r *TypeRegistry) typeInfo(id ComponentTypeId) *ComponentType {
	r.mu.RLock()
	t := &r.types[id]
	r.mu.RUnlock()
	return t
}

// containsPointers reports whether values of t hold anything the garbage
// collector would need to trace. Chunk memory is not scanned.
func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && containsPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
