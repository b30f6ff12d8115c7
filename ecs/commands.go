package ecs

import (
	"errors"
	"sync"
)

// CommandBuffer queues work to run later on the goroutine that owns the
// entities. It is the way to make structural changes from query callbacks,
// including parallel ones: Add may be called from any goroutine.
type CommandBuffer struct {
	mu      sync.Mutex
	actions []func()
	spare   []func()
}

// NewCommandBuffer creates an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Add queues action.
func (c *CommandBuffer) Add(action func()) error {
	if action == nil {
		return ErrNilCallback
	}
	c.mu.Lock()
	c.actions = append(c.actions, action)
	c.mu.Unlock()
	return nil
}

// Len returns the number of queued actions.
func (c *CommandBuffer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions)
}

// Execute runs the queued actions in the order they were added and empties
// the buffer. Actions queued while Execute runs are kept for the next call.
func (c *CommandBuffer) Execute() {
	c.mu.Lock()
	batch := c.actions
	c.actions, c.spare = c.spare[:0], nil
	c.mu.Unlock()

	for _, action := range batch {
		action()
	}

	clear(batch)
	c.mu.Lock()
	c.spare = batch[:0]
	c.mu.Unlock()
}

// CreateEntity queues the creation of an entity from layout.
func (c *CommandBuffer) CreateEntity(e *Entities, layout *Layout) {
	c.Add(func() {
		_, err := e.CreateEntityWithLayout(layout)
		e.logCommandError("create entity", InvalidEntityId, err)
	})
}

// DestroyEntity queues the destruction of id.
func (c *CommandBuffer) DestroyEntity(e *Entities, id EntityId) {
	c.Add(func() {
		e.logCommandError("destroy entity", id, e.DestroyEntity(id))
	})
}

// SetDisabled queues a change of id's Disabled tag.
func (c *CommandBuffer) SetDisabled(e *Entities, id EntityId, disabled bool) {
	c.Add(func() {
		e.logCommandError("set disabled", id, e.SetDisabled(id, disabled))
	})
}

// DeferAddComponent queues AddComponent(e, id, value).
func DeferAddComponent[T any](c *CommandBuffer, e *Entities, id EntityId, value T) {
	c.Add(func() {
		e.logCommandError("add component", id, AddComponent(e, id, value))
	})
}

// DeferRemoveComponent queues RemoveComponent[T](e, id).
func DeferRemoveComponent[T any](c *CommandBuffer, e *Entities, id EntityId) {
	c.Add(func() {
		e.logCommandError("remove component", id, RemoveComponent[T](e, id))
	})
}

// logCommandError reports a failed deferred operation. Operations on entities
// destroyed earlier in the same batch are expected and only logged at debug level.
func (e *Entities) logCommandError(op string, id EntityId, err error) {
	if err == nil {
		return
	}
	ev := e.log.Warn()
	if errors.Is(err, ErrInvalidEntityId) {
		ev = e.log.Debug()
	}
	ev.Err(err).Str("op", op).Uint32("entity", uint32(id)).Msg("deferred command failed")
}
