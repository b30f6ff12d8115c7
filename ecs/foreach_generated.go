package ecs

import "reflect"

// ForEach0 calls fn for every entity matching the pending filter.
func ForEach0(e *Entities, fn func(EntityId)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery()
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, _ *queryColumns, c *chunk) {
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot])
		})
	})
}

// ParallelForEach0 is ForEach0 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach0(e *Entities, fn func(EntityId)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery()
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, _ *queryColumns, c *chunk) {
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot])
		})
	})
}

// ForEach1 calls fn for every entity holding a T1 and matching the pending filter.
func ForEach1[T1 any](e *Entities, fn func(EntityId, *T1)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)))
		})
	})
}

// ParallelForEach1 is ForEach1 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach1[T1 any](e *Entities, fn func(EntityId, *T1)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)))
		})
	})
}

// ForEach2 calls fn for every entity holding T1 and T2 and matching the pending filter.
// The pointers are only valid for the duration of the call.
func ForEach2[T1, T2 any](e *Entities, fn func(EntityId, *T1, *T2)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)))
		})
	})
}

// ParallelForEach2 is ForEach2 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach2[T1, T2 any](e *Entities, fn func(EntityId, *T1, *T2)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)))
		})
	})
}

// ForEach3 calls fn for every entity holding T1, T2 and T3 and matching the pending filter.
func ForEach3[T1, T2, T3 any](e *Entities, fn func(EntityId, *T1, *T2, *T3)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)))
		})
	})
}

// ParallelForEach3 is ForEach3 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach3[T1, T2, T3 any](e *Entities, fn func(EntityId, *T1, *T2, *T3)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)))
		})
	})
}

// ForEach4 calls fn for every entity holding T1, T2, T3 and T4 and matching the pending filter.
func ForEach4[T1, T2, T3, T4 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)))
		})
	})
}

// ParallelForEach4 is ForEach4 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach4[T1, T2, T3, T4 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)))
		})
	})
}

// ForEach5 calls fn for every entity holding T1, T2, T3, T4 and T5 and matching the pending filter.
func ForEach5[T1, T2, T3, T4, T5 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4, *T5)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		c5 := c.cursor(cols[4])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)), (*T5)(c5.at(slot)))
		})
	})
}

// ParallelForEach5 is ForEach5 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach5[T1, T2, T3, T4, T5 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4, *T5)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		c5 := c.cursor(cols[4])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)), (*T5)(c5.at(slot)))
		})
	})
}

// ForEach6 calls fn for every entity holding T1, T2, T3, T4, T5 and T6 and matching the pending filter.
func ForEach6[T1, T2, T3, T4, T5, T6 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4, *T5, *T6)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](), reflect.TypeFor[T6]())
	if err != nil {
		return err
	}
	return e.run(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		c5 := c.cursor(cols[4])
		c6 := c.cursor(cols[5])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)), (*T5)(c5.at(slot)), (*T6)(c6.at(slot)))
		})
	})
}

// ParallelForEach6 is ForEach6 with chunks distributed over the worker pool. fn
// runs concurrently and must not make structural changes; queue them on a
// CommandBuffer instead.
func ParallelForEach6[T1, T2, T3, T4, T5, T6 any](e *Entities, fn func(EntityId, *T1, *T2, *T3, *T4, *T5, *T6)) error {
	if fn == nil {
		e.filter.reset()
		return ErrNilCallback
	}
	plan, err := e.prepareQuery(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](), reflect.TypeFor[T6]())
	if err != nil {
		return err
	}
	return e.runParallel(plan, func(g *EntityGroup, cols *queryColumns, c *chunk) {
		c1 := c.cursor(cols[0])
		c2 := c.cursor(cols[1])
		c3 := c.cursor(cols[2])
		c4 := c.cursor(cols[3])
		c5 := c.cursor(cols[4])
		c6 := c.cursor(cols[5])
		ids := c.ids()
		e.eachSlot(g, c, func(slot int) {
			fn(ids[slot], (*T1)(c1.at(slot)), (*T2)(c2.at(slot)), (*T3)(c3.at(slot)), (*T4)(c4.at(slot)), (*T5)(c5.at(slot)), (*T6)(c6.at(slot)))
		})
	})
}
