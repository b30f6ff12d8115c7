package ecs

import (
	"iter"
	"sync/atomic"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Entities is the storage and query facade for a set of entities. Structural
// changes (create, destroy, add, remove, apply layout) must be made from a
// single owner goroutine and never while a query is running; use a
// CommandBuffer to defer them out of query callbacks.
type Entities struct {
	registry   *TypeRegistry
	opts       Options
	log        zerolog.Logger
	groups     groupLocator
	locations  locationMap
	containers *intmap.Map[EntityId, DataContainer]
	events     eventTable
	filter     filterState
	queries    queryCache

	nextId    EntityId
	version   uint64
	iterating atomic.Int32
	disposed  bool
}

// NewEntities creates an empty Entities with DefaultOptions.
func NewEntities(registry *TypeRegistry) *Entities {
	return NewEntitiesWithOptions(registry, DefaultOptions())
}

// NewEntitiesWithOptions creates an empty Entities using the given registry and options.
func NewEntitiesWithOptions(registry *TypeRegistry, opts Options) *Entities {
	opts = opts.normalized()
	e := &Entities{
		registry:   registry,
		opts:       opts,
		log:        opts.Logger.With().Str("component", "ecs").Logger(),
		locations:  newLocationMap(opts.InitialCapacity),
		containers: intmap.New[EntityId, DataContainer](opts.InitialCapacity),
		queries:    newQueryCache(),
	}
	e.groups = newGroupLocator(registry, opts.ChunkSize, &e.log)
	e.filter.reset()
	return e
}

// Registry returns the type registry the instance was built on.
func (e *Entities) Registry() *TypeRegistry {
	return e.registry
}

// Len returns the number of live entities.
func (e *Entities) Len() int {
	return e.locations.len()
}

// Exists reports whether id names a live entity.
func (e *Entities) Exists(id EntityId) bool {
	return id != InvalidEntityId && e.locations.has(id)
}

// All yields the ids of all live entities in no particular order. The
// sequence must not be consumed across structural changes.
func (e *Entities) All() iter.Seq[EntityId] {
	return e.locations.refs.Keys()
}

// Location returns where id's data is stored.
func (e *Entities) Location(id EntityId) (EntityReference, bool) {
	if id == InvalidEntityId {
		return EntityReference{}, false
	}
	return e.locations.get(id)
}

// ArchetypeOf returns the set of component types id holds.
func (e *Entities) ArchetypeOf(id EntityId) (Archetype, bool) {
	ref, ok := e.Location(id)
	if !ok {
		return Archetype{}, false
	}
	if ref.Group == nil {
		return Archetype{}, true
	}
	return ref.Group.archetype, true
}

// Groups returns the entity groups in creation order. The slice must not be modified.
func (e *Entities) Groups() []*EntityGroup {
	return e.groups.groups()
}

// DataContainer returns the auxiliary container attached to id.
func (e *Entities) DataContainer(id EntityId) (DataContainer, bool) {
	return e.containers.Get(id)
}

// CreateEntity creates an entity with no components.
func (e *Entities) CreateEntity() (EntityId, error) {
	if err := e.checkStructural(); err != nil {
		return InvalidEntityId, err
	}

	id := e.allocateId()
	e.commitNew(id, EntityReference{})
	return id, nil
}

// CreateEntityWithLayout creates an entity holding every component of layout,
// initialized to the layout's defaults.
func (e *Entities) CreateEntityWithLayout(layout *Layout) (EntityId, error) {
	if layout == nil {
		return InvalidEntityId, ErrNilLayout
	}
	if err := e.checkStructural(); err != nil {
		return InvalidEntityId, err
	}

	if layout.archetype.IsEmpty() {
		id := e.allocateId()
		e.commitNew(id, EntityReference{})
		return id, nil
	}

	g, err := e.groups.resolve(layout.archetype)
	if err != nil {
		return InvalidEntityId, err
	}
	id := e.allocateId()
	ref := e.allocate(g, id)
	layout.write(g, ref)
	e.commitNew(id, ref)
	e.publishAdded(id, layout.archetype)
	return id, nil
}

// Clone creates a new entity with the same components and byte-identical values as src.
func (e *Entities) Clone(src EntityId) (EntityId, error) {
	if err := e.checkStructural(); err != nil {
		return InvalidEntityId, err
	}
	srcRef, err := e.lookup(src)
	if err != nil {
		return InvalidEntityId, err
	}

	id := e.allocateId()
	if srcRef.Group == nil {
		e.commitNew(id, EntityReference{})
		return id, nil
	}

	g := srcRef.Group
	ref := e.allocate(g, id)
	copyShared(g, ref, g, srcRef)
	e.commitNew(id, ref)
	e.publishAdded(id, g.archetype)
	return id, nil
}

// DestroyEntity removes id and all of its components.
func (e *Entities) DestroyEntity(id EntityId) error {
	if err := e.checkStructural(); err != nil {
		return err
	}
	ref, err := e.lookup(id)
	if err != nil {
		return err
	}

	var removed []removedComponent
	if ref.Group != nil {
		removed = e.snapshotRemoved(ref, ref.Group.archetype)
		e.free(ref)
	}
	e.locations.del(id)
	e.detachContainer(id)
	e.version++

	e.publishRemoved(id, removed)
	return nil
}

// Dispose releases all chunk memory and auxiliary containers. Every later call fails with ErrDisposed.
func (e *Entities) Dispose() {
	if e.disposed {
		return
	}
	for c := range e.containers.Values() {
		c.Dispose()
	}
	e.containers.Clear()
	e.locations.refs.Clear()
	e.groups.release()
	e.queries.reset()
	e.events.reset()
	e.disposed = true
	e.version++
	e.log.Debug().Msg("entities disposed")
}

func (e *Entities) checkStructural() error {
	if e.disposed {
		return ErrDisposed
	}
	if e.iterating.Load() > 0 {
		return ErrIllegalStructuralChange
	}
	return nil
}

func (e *Entities) lookup(id EntityId) (EntityReference, error) {
	if e.disposed {
		return EntityReference{}, ErrDisposed
	}
	if id != InvalidEntityId {
		if ref, ok := e.locations.get(id); ok {
			return ref, nil
		}
	}
	return EntityReference{}, eris.Wrapf(ErrInvalidEntityId, "entity %d", id)
}

// allocateId returns the next id that is neither zero nor alive.
func (e *Entities) allocateId() EntityId {
	for {
		e.nextId++
		if e.nextId != InvalidEntityId && !e.locations.has(e.nextId) {
			return e.nextId
		}
	}
}

func (e *Entities) allocate(g *EntityGroup, id EntityId) EntityReference {
	c, slot := g.AllocateSlot(id)
	return EntityReference{Group: g, Chunk: int32(c), Slot: int32(slot)}
}

// free removes the row at ref and patches the location of the entity moved into it.
func (e *Entities) free(ref EntityReference) {
	moved := ref.Group.Remove(int(ref.Chunk), int(ref.Slot))
	if moved != InvalidEntityId {
		e.locations.put(moved, ref)
	}
}

func (e *Entities) commitNew(id EntityId, ref EntityReference) {
	e.locations.put(id, ref)
	e.attachContainer(id)
	e.version++
}

func (e *Entities) attachContainer(id EntityId) {
	if e.opts.NewDataContainer == nil {
		return
	}
	if c := e.opts.NewDataContainer(id); c != nil {
		e.containers.Put(id, c)
	}
}

func (e *Entities) detachContainer(id EntityId) {
	if c, ok := e.containers.Get(id); ok {
		c.Dispose()
		e.containers.Del(id)
	}
}
