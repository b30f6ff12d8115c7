package ecs

import "github.com/rotisserie/eris"

var (
	// ErrInvalidEntityId is returned when an operation names an entity that is not alive.
	ErrInvalidEntityId = eris.New("invalid entity id")
	// ErrComponentNotFound is returned by GetComponent when the entity lacks the component.
	ErrComponentNotFound = eris.New("component not found")
	// ErrIllegalStructuralChange is returned by structural operations attempted while a query is running.
	ErrIllegalStructuralChange = eris.New("illegal structural change during iteration")
	ErrTypeCapacityExceeded    = eris.New("component type capacity exceeded")
	ErrComponentTooLarge       = eris.New("component too large")
	ErrManagedComponent        = eris.New("component type contains pointers")
	ErrUnregisteredComponent   = eris.New("component type not registered")
	ErrNilLayout               = eris.New("layout is nil")
	ErrNilCallback             = eris.New("callback is nil")
	ErrStaleReference          = eris.New("component reference invalidated by structural change")
	ErrDisposed                = eris.New("entities disposed")
)
