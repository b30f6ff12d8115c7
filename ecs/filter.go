package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// filterState accumulates filter calls until the next query consumes it.
type filterState struct {
	any, no, with   Archetype
	includeDisabled bool
	err             error
}

func (f *filterState) reset() {
	*f = filterState{}
}

func (f *filterState) addIds(dst *Archetype, r *TypeRegistry, ids ...ComponentTypeId) {
	for _, id := range ids {
		if _, ok := r.Type(id); !ok {
			if f.err == nil {
				f.err = eris.Wrapf(ErrUnregisteredComponent, "filter on type id %d", id)
			}
			continue
		}
		dst.set(id)
	}
}

func (f *filterState) add(dst *Archetype, r *TypeRegistry, types ...reflect.Type) {
	for _, t := range types {
		id, ok := r.idOf(t)
		if !ok {
			if f.err == nil {
				f.err = eris.Wrapf(ErrUnregisteredComponent, "filter on %s", t)
			}
			continue
		}
		dst.set(id)
	}
}

// queryFilter is the resolved filter of a single query. It is comparable and
// keys the query cache.
type queryFilter struct {
	any, no, with Archetype
}

func (f *filterState) resolve(requested Archetype) queryFilter {
	q := queryFilter{
		any:  f.any,
		no:   f.no,
		with: f.with.Union(requested),
	}
	if !f.includeDisabled && !q.with.Contains(DisabledTypeId) {
		q.no.set(DisabledTypeId)
	}
	return q
}

func (q queryFilter) matches(a Archetype) bool {
	if !a.ContainsAll(q.with) {
		return false
	}
	if a.ContainsAny(q.no) {
		return false
	}
	return q.any.IsEmpty() || a.ContainsAny(q.any)
}

// Any restricts the next query to entities holding at least one of ids.
func (e *Entities) Any(ids ...ComponentTypeId) *Entities {
	e.filter.addIds(&e.filter.any, e.registry, ids...)
	return e
}

// No excludes entities holding any of ids from the next query.
func (e *Entities) No(ids ...ComponentTypeId) *Entities {
	e.filter.addIds(&e.filter.no, e.registry, ids...)
	return e
}

// With restricts the next query to entities holding all of ids, in addition
// to the components the query itself requests.
func (e *Entities) With(ids ...ComponentTypeId) *Entities {
	e.filter.addIds(&e.filter.with, e.registry, ids...)
	return e
}

// IncludeDisabled lets the next query visit entities tagged Disabled.
func (e *Entities) IncludeDisabled() *Entities {
	e.filter.includeDisabled = true
	return e
}

// ResetFilter discards any filter calls not yet consumed by a query.
func (e *Entities) ResetFilter() *Entities {
	e.filter.reset()
	return e
}
