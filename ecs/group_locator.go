package ecs

import "github.com/rs/zerolog"

// groupLocator owns every group of an Entities instance, keyed by archetype.
// Groups are only ever appended.
type groupLocator struct {
	registry  *TypeRegistry
	chunkSize int
	byArch    map[Archetype]*EntityGroup
	list      []*EntityGroup
	log       *zerolog.Logger
}

func newGroupLocator(reg *TypeRegistry, chunkSize int, log *zerolog.Logger) groupLocator {
	return groupLocator{
		registry:  reg,
		chunkSize: chunkSize,
		byArch:    make(map[Archetype]*EntityGroup),
		log:       log,
	}
}

func (l *groupLocator) find(a Archetype) (*EntityGroup, bool) {
	g, ok := l.byArch[a]
	return g, ok
}

// resolve returns the group for a, creating it on first use.
func (l *groupLocator) resolve(a Archetype) (*EntityGroup, error) {
	if g, ok := l.byArch[a]; ok {
		return g, nil
	}

	g, err := newEntityGroup(l.registry, a, l.chunkSize)
	if err != nil {
		return nil, err
	}
	g.index = len(l.list)
	l.byArch[a] = g
	l.list = append(l.list, g)

	l.log.Debug().
		Int("group", g.index).
		Stringer("archetype", a).
		Int("chunk_capacity", g.capacity).
		Msg("created entity group")
	return g, nil
}

func (l *groupLocator) groups() []*EntityGroup {
	return l.list
}

func (l *groupLocator) release() {
	for _, g := range l.list {
		g.release()
	}
	clear(l.byArch)
	l.list = nil
}
