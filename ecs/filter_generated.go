package ecs

import "reflect"

// Any1 restricts the next query to entities holding T1.
func Any1[T1 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1]())
	return e
}

// Any2 restricts the next query to entities holding at least one of T1 and T2.
func Any2[T1, T2 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
	return e
}

// Any3 restricts the next query to entities holding at least one of T1, T2 and T3.
func Any3[T1, T2, T3 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
	return e
}

// Any4 restricts the next query to entities holding at least one of T1, T2, T3 and T4.
func Any4[T1, T2, T3, T4 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
	return e
}

// Any5 restricts the next query to entities holding at least one of T1, T2, T3, T4 and T5.
func Any5[T1, T2, T3, T4, T5 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
	return e
}

// Any6 restricts the next query to entities holding at least one of T1, T2, T3, T4, T5 and T6.
func Any6[T1, T2, T3, T4, T5, T6 any](e *Entities) *Entities {
	e.filter.add(&e.filter.any, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](), reflect.TypeFor[T6]())
	return e
}

// No1 excludes entities holding T1 from the next query.
func No1[T1 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1]())
	return e
}

// No2 excludes entities holding any of T1 and T2 from the next query.
func No2[T1, T2 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
	return e
}

// No3 excludes entities holding any of T1, T2 and T3 from the next query.
func No3[T1, T2, T3 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
	return e
}

// No4 excludes entities holding any of T1, T2, T3 and T4 from the next query.
func No4[T1, T2, T3, T4 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
	return e
}

// No5 excludes entities holding any of T1, T2, T3, T4 and T5 from the next query.
func No5[T1, T2, T3, T4, T5 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
	return e
}

// No6 excludes entities holding any of T1, T2, T3, T4, T5 and T6 from the next query.
func No6[T1, T2, T3, T4, T5, T6 any](e *Entities) *Entities {
	e.filter.add(&e.filter.no, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](), reflect.TypeFor[T6]())
	return e
}

// With1 restricts the next query to entities holding T1.
func With1[T1 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1]())
	return e
}

// With2 restricts the next query to entities holding all of T1 and T2.
func With2[T1, T2 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
	return e
}

// With3 restricts the next query to entities holding all of T1, T2 and T3.
func With3[T1, T2, T3 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
	return e
}

// With4 restricts the next query to entities holding all of T1, T2, T3 and T4.
func With4[T1, T2, T3, T4 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
	return e
}

// With5 restricts the next query to entities holding all of T1, T2, T3, T4 and T5.
func With5[T1, T2, T3, T4, T5 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
	return e
}

// With6 restricts the next query to entities holding all of T1, T2, T3, T4, T5 and T6.
func With6[T1, T2, T3, T4, T5, T6 any](e *Entities) *Entities {
	e.filter.add(&e.filter.with, e.registry, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](), reflect.TypeFor[T6]())
	return e
}
