package ecs

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// AddHandler receives add events for component T.
type AddHandler[T any] interface {
	ComponentAdded(id EntityId, component *T)
}

// RemoveHandler receives remove events for component T. The pointer refers to
// a copy of the removed value and is only valid during the call.
type RemoveHandler[T any] interface {
	ComponentRemoved(id EntityId, component *T)
}

type eventKind uint8

const (
	eventAdd eventKind = iota
	eventRemove
)

// Subscription identifies a registered handler.
type Subscription struct {
	id     uint64
	typeId ComponentTypeId
	kind   eventKind
}

type handler struct {
	id uint64
	fn func(EntityId, unsafe.Pointer)
}

// eventTable holds handlers indexed by component type id.
type eventTable struct {
	handlers [2][][]handler
	nextId   uint64
	count    int
}

func (t *eventTable) subscribe(kind eventKind, typeId ComponentTypeId, fn func(EntityId, unsafe.Pointer)) Subscription {
	byType := t.handlers[kind]
	if int(typeId) >= len(byType) {
		byType = append(byType, make([][]handler, int(typeId)+1-len(byType))...)
		t.handlers[kind] = byType
	}
	t.nextId++
	byType[typeId] = append(byType[typeId], handler{id: t.nextId, fn: fn})
	t.count++
	return Subscription{id: t.nextId, typeId: typeId, kind: kind}
}

func (t *eventTable) unsubscribe(s Subscription) bool {
	byType := t.handlers[s.kind]
	if int(s.typeId) >= len(byType) {
		return false
	}
	list := byType[s.typeId]
	for i, h := range list {
		if h.id != s.id {
			continue
		}
		// Copy so that a publish in progress keeps its view of the list.
		next := make([]handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		byType[s.typeId] = append(next, list[i+1:]...)
		t.count--
		return true
	}
	return false
}

func (t *eventTable) of(kind eventKind, typeId ComponentTypeId) []handler {
	if t.count == 0 {
		return nil
	}
	byType := t.handlers[kind]
	if int(typeId) >= len(byType) {
		return nil
	}
	return byType[typeId]
}

func (t *eventTable) reset() {
	*t = eventTable{}
}

// OnAdd registers fn to be called whenever a T is added to an entity.
func OnAdd[T any](e *Entities, fn func(EntityId, *T)) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilCallback
	}
	typeId, err := typeIdFor[T](e)
	if err != nil {
		return Subscription{}, err
	}
	return e.events.subscribe(eventAdd, typeId, func(id EntityId, p unsafe.Pointer) {
		fn(id, (*T)(p))
	}), nil
}

// OnRemove registers fn to be called whenever a T is removed from an entity,
// including when the entity is destroyed.
func OnRemove[T any](e *Entities, fn func(EntityId, *T)) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilCallback
	}
	typeId, err := typeIdFor[T](e)
	if err != nil {
		return Subscription{}, err
	}
	return e.events.subscribe(eventRemove, typeId, func(id EntityId, p unsafe.Pointer) {
		fn(id, (*T)(p))
	}), nil
}

// Subscribe registers sub for every event of T it can handle, determined by
// whether it implements AddHandler[T] and/or RemoveHandler[T].
func Subscribe[T any](e *Entities, sub any) ([]Subscription, error) {
	var subs []Subscription
	if h, ok := sub.(AddHandler[T]); ok {
		s, err := OnAdd(e, h.ComponentAdded)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if h, ok := sub.(RemoveHandler[T]); ok {
		s, err := OnRemove(e, h.ComponentRemoved)
		if err != nil {
			for _, prev := range subs {
				e.Unsubscribe(prev)
			}
			return nil, err
		}
		subs = append(subs, s)
	}
	if len(subs) == 0 {
		return nil, eris.Wrapf(ErrNilCallback, "%T handles no events for %s", sub, reflect.TypeFor[T]())
	}
	return subs, nil
}

// Unsubscribe removes a handler. It reports whether the subscription was active.
func (e *Entities) Unsubscribe(s Subscription) bool {
	return e.events.unsubscribe(s)
}

// publishAdded notifies add handlers for each type in types. The component
// pointer is resolved again before every call since a handler may move the entity.
func (e *Entities) publishAdded(id EntityId, types Archetype) {
	if e.events.count == 0 {
		return
	}
	for typeId := range types.Types() {
		for _, h := range e.events.of(eventAdd, typeId) {
			ref, ok := e.locations.get(id)
			if !ok || ref.Group == nil || !ref.Group.archetype.Contains(typeId) {
				break
			}
			e.dispatch(h, id, typeId, ref.Group.pointer(ref, typeId))
		}
	}
}

type removedComponent struct {
	typeId ComponentTypeId
	value  []uint64
}

func (r removedComponent) pointer() unsafe.Pointer {
	if len(r.value) == 0 {
		return zeroSizedBase
	}
	return unsafe.Pointer(&r.value[0])
}

// snapshotRemoved copies the values about to be removed for every type in
// types that has remove handlers.
func (e *Entities) snapshotRemoved(ref EntityReference, types Archetype) []removedComponent {
	if e.events.count == 0 {
		return nil
	}
	var out []removedComponent
	for typeId := range types.Types() {
		if len(e.events.of(eventRemove, typeId)) == 0 {
			continue
		}
		r := removedComponent{typeId: typeId}
		if col := ref.Group.column(typeId); col != nil {
			r.value = make([]uint64, (col.size+7)/8)
			dst := unsafe.Slice((*byte)(unsafe.Pointer(&r.value[0])), col.size)
			copy(dst, ref.Group.chunks[ref.Chunk].bytes(col, int(ref.Slot)))
		}
		out = append(out, r)
	}
	return out
}

func (e *Entities) publishRemoved(id EntityId, removed []removedComponent) {
	for _, r := range removed {
		for _, h := range e.events.of(eventRemove, r.typeId) {
			e.dispatch(h, id, r.typeId, r.pointer())
		}
	}
}

// dispatch invokes a handler, logging and swallowing any panic it raises.
func (e *Entities) dispatch(h handler, id EntityId, typeId ComponentTypeId, p unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Uint32("entity", uint32(id)).
				Str("component", e.registry.typeInfo(typeId).Name).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h.fn(id, p)
}
