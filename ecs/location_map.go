package ecs

import "github.com/kamstrup/intmap"

// locationMap maps live entity ids to their rows.
type locationMap struct {
	refs *intmap.Map[EntityId, EntityReference]
}

func newLocationMap(capacity int) locationMap {
	return locationMap{refs: intmap.New[EntityId, EntityReference](capacity)}
}

func (m locationMap) get(id EntityId) (EntityReference, bool) {
	return m.refs.Get(id)
}

func (m locationMap) has(id EntityId) bool {
	return m.refs.Has(id)
}

func (m locationMap) put(id EntityId, ref EntityReference) {
	m.refs.Put(id, ref)
}

func (m locationMap) del(id EntityId) {
	m.refs.Del(id)
}

func (m locationMap) len() int {
	return m.refs.Len()
}
