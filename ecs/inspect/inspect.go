// Package inspect renders the state of an ecs.Entities as plain text for
// server consoles, admin endpoints and logs. It covers the group table, entity
// listings, per-entity component values, query matching by type name and
// frame-time history.
//
// Everything here reads the entities and must run on the goroutine that owns
// them, outside of query callbacks.
package inspect

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrUnknownType is returned when a type name is not registered.
	ErrUnknownType = eris.New("unknown component type")
	// ErrNoTypes is returned when a match is requested without any type names.
	ErrNoTypes = eris.New("no component types selected")
)
