package ecs

import (
	"errors"
	"iter"
	"reflect"
	"runtime/debug"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

const maxQueryArity = 6

type queryColumns [maxQueryArity]*column

// chunkFunc visits the live rows of one chunk. cols holds the columns of the
// requested types in request order, nil for zero-sized ones.
type chunkFunc func(g *EntityGroup, cols *queryColumns, c *chunk)

type queryPlan struct {
	groups []*EntityGroup
	ids    [maxQueryArity]ComponentTypeId
	arity  int
}

func (p *queryPlan) columns(g *EntityGroup, cols *queryColumns) {
	for i := range p.arity {
		cols[i] = g.column(p.ids[i])
	}
}

// queryCache remembers which groups match a filter. Groups are never removed,
// so an entry only has to scan the groups created since it was last used.
type queryCache struct {
	entries map[queryFilter]*cachedQuery
}

type cachedQuery struct {
	groups  []*EntityGroup
	scanned int
}

func newQueryCache() queryCache {
	return queryCache{entries: make(map[queryFilter]*cachedQuery)}
}

func (c *queryCache) match(f queryFilter, all []*EntityGroup) []*EntityGroup {
	entry, ok := c.entries[f]
	if !ok {
		entry = &cachedQuery{}
		c.entries[f] = entry
	}
	for _, g := range all[entry.scanned:] {
		if f.matches(g.archetype) {
			entry.groups = append(entry.groups, g)
		}
	}
	entry.scanned = len(all)
	return entry.groups
}

func (c *queryCache) reset() {
	clear(c.entries)
}

// prepareQuery consumes the pending filter and resolves the groups matching it
// plus the requested component types.
func (e *Entities) prepareQuery(types ...reflect.Type) (queryPlan, error) {
	f := e.filter
	e.filter.reset()

	if e.disposed {
		return queryPlan{}, ErrDisposed
	}
	if f.err != nil {
		return queryPlan{}, f.err
	}

	plan := queryPlan{arity: len(types)}
	var requested Archetype
	for i, t := range types {
		id, ok := e.registry.idOf(t)
		if !ok {
			return queryPlan{}, eris.Wrapf(ErrUnregisteredComponent, "query on %s", t)
		}
		plan.ids[i] = id
		requested.set(id)
	}
	plan.groups = e.queries.match(f.resolve(requested), e.groups.groups())
	return plan, nil
}

// run visits every matching chunk on the calling goroutine.
func (e *Entities) run(plan queryPlan, body chunkFunc) error {
	e.iterating.Add(1)
	defer e.iterating.Add(-1)

	var cols queryColumns
	for _, g := range plan.groups {
		if g.count == 0 {
			continue
		}
		plan.columns(g, &cols)
		for _, c := range g.chunks {
			if c.len() > 0 {
				body(g, &cols, c)
			}
		}
	}
	return nil
}

type workItem struct {
	g    *EntityGroup
	cols *queryColumns
	c    *chunk
}

type callbackPanic struct {
	value any
	stack []byte
}

func (p *callbackPanic) Error() string {
	return "query callback panicked"
}

// runParallel distributes the matching chunks over a bounded worker pool. Each
// chunk is visited by exactly one worker.
func (e *Entities) runParallel(plan queryPlan, body chunkFunc) error {
	var items []workItem
	for _, g := range plan.groups {
		if g.count == 0 {
			continue
		}
		cols := new(queryColumns)
		plan.columns(g, cols)
		for _, c := range g.chunks {
			if c.len() > 0 {
				items = append(items, workItem{g: g, cols: cols, c: c})
			}
		}
	}
	if len(items) == 0 {
		return nil
	}

	e.iterating.Add(1)
	defer e.iterating.Add(-1)

	var eg errgroup.Group
	eg.SetLimit(e.opts.Workers)
	for _, it := range items {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &callbackPanic{value: r, stack: debug.Stack()}
				}
			}()
			body(it.g, it.cols, it.c)
			return nil
		})
	}

	err := eg.Wait()
	var p *callbackPanic
	if errors.As(err, &p) {
		e.log.Debug().Bytes("stack", p.stack).Msg("re-raising parallel query panic")
		panic(p.value)
	}
	return err
}

// eachSlot calls visit for every live row of c. Outside debug mode a panic in
// visit is logged and iteration resumes with the following row.
func (e *Entities) eachSlot(g *EntityGroup, c *chunk, visit func(slot int)) {
	n := c.len()
	if e.opts.Debug {
		for slot := range n {
			visit(slot)
		}
		return
	}
	for slot := 0; slot < n; {
		slot = e.guardedSlots(g, c, slot, n, visit)
	}
}

func (e *Entities) guardedSlots(g *EntityGroup, c *chunk, from, n int, visit func(slot int)) (next int) {
	slot := from
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Uint32("entity", uint32(c.entityAt(slot))).
				Int("group", g.index).
				Interface("panic", r).
				Msg("query callback panicked")
			next = slot + 1
		}
	}()
	for ; slot < n; slot++ {
		visit(slot)
	}
	return n
}

// Matching consumes the pending filter and yields the ids of every matching
// entity. Structural changes are rejected while the sequence is being consumed.
func (e *Entities) Matching() iter.Seq[EntityId] {
	plan, err := e.prepareQuery()
	return func(yield func(EntityId) bool) {
		if err != nil {
			return
		}
		e.iterating.Add(1)
		defer e.iterating.Add(-1)
		for _, g := range plan.groups {
			for _, c := range g.chunks {
				for _, id := range c.ids() {
					if !yield(id) {
						return
					}
				}
			}
		}
	}
}

// Count consumes the pending filter and returns the number of matching entities.
func (e *Entities) Count() int {
	plan, err := e.prepareQuery()
	if err != nil {
		return 0
	}
	n := 0
	for _, g := range plan.groups {
		n += g.count
	}
	return n
}
