package ecs

import (
	"slices"
	"sync"

	"github.com/kamstrup/intmap"
)

// DataContainer is auxiliary per-entity state owned by the layer above the
// ECS, for example the last values pushed to clients. It is created with the
// entity and disposed when the entity is destroyed.
type DataContainer interface {
	Dispose()
}

// PushedData is the default DataContainer. It keeps a byte snapshot of the
// last value pushed for each component type.
type PushedData struct {
	mu       sync.Mutex
	entity   EntityId
	values   *intmap.Map[ComponentTypeId, []byte]
	disposed bool
}

// NewPushedData creates an empty container for id.
func NewPushedData(id EntityId) DataContainer {
	return &PushedData{
		entity: id,
		values: intmap.New[ComponentTypeId, []byte](4),
	}
}

// Entity returns the entity the container belongs to.
func (p *PushedData) Entity() EntityId {
	return p.entity
}

// Store records a copy of data as the last value pushed for typeId.
func (p *PushedData) Store(typeId ComponentTypeId, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.values.Put(typeId, slices.Clone(data))
}

// Load returns the last value stored for typeId. The slice is never written
// again and stays valid after later Store calls.
func (p *PushedData) Load(typeId ComponentTypeId) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Get(typeId)
}

// Forget drops the value stored for typeId.
func (p *PushedData) Forget(typeId ComponentTypeId) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values.Del(typeId)
}

// Len returns the number of component types with a stored value.
func (p *PushedData) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Len()
}

func (p *PushedData) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values.Clear()
	p.disposed = true
}

// StoreComponent snapshots id's current T into its PushedData container.
// It reports false when the entity has no T or no PushedData container.
func StoreComponent[T any](e *Entities, id EntityId) bool {
	ptr, ok := TryGetComponent[T](e, id)
	if !ok {
		return false
	}
	c, ok := e.DataContainer(id)
	if !ok {
		return false
	}
	pd, ok := c.(*PushedData)
	if !ok {
		return false
	}
	typeId, _ := ComponentTypeIdOf[T](e.registry)
	pd.Store(typeId, asBytes(ptr))
	return true
}

// ChangedSinceStore reports whether id's T differs from the value last stored
// with StoreComponent. A component that was never stored counts as changed.
func ChangedSinceStore[T any](e *Entities, id EntityId) bool {
	ptr, ok := TryGetComponent[T](e, id)
	if !ok {
		return false
	}
	c, ok := e.DataContainer(id)
	if !ok {
		return true
	}
	pd, ok := c.(*PushedData)
	if !ok {
		return true
	}
	typeId, _ := ComponentTypeIdOf[T](e.registry)
	prev, ok := pd.Load(typeId)
	return !ok || string(prev) != string(asBytes(ptr))
}
