package ecs

// System is a unit of per-tick behavior run by a Scheduler.
type System interface {
	Execute(frame *UpdateFrame)
}

// Initializer is implemented by systems that need to resolve component types
// or subscribe to events once, when they are registered.
type Initializer interface {
	Init(entities *Entities) error
}
