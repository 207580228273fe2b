package gekko

import (
	"reflect"
)

// Query1..Query3 iterate every entity holding the requested components.
// Components passed as optionals may be missing; the callback then receives nil.
// Returning false from the callback stops the iteration.
type Query1[A any] struct {
	ecs     *Ecs
	without []any
}
type Query2[A, B any] struct {
	ecs     *Ecs
	without []any
}
type Query3[A, B, C any] struct {
	ecs     *Ecs
	without []any
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

// Without excludes entities that have any of the given components.
func (q Query1[A]) Without(components ...any) Query1[A] {
	q.without = append(q.without, components...)
	return q
}

func (q Query2[A, B]) Without(components ...any) Query2[A, B] {
	q.without = append(q.without, components...)
	return q
}

func (q Query3[A, B, C]) Without(components ...any) Query3[A, B, C] {
	q.without = append(q.without, components...)
	return q
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)
	excluded := identifyComponents(q.ecs, q.without...)

	for _, arch := range q.ecs.archetypes {
		if arch.hasAny(excluded) {
			continue
		}
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, row)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)
	excluded := identifyComponents(q.ecs, q.without...)

	for _, arch := range q.ecs.archetypes {
		if arch.hasAny(excluded) {
			continue
		}
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, row), at(comps2, row)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs), identifyComponent[C](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)
	excluded := identifyComponents(q.ecs, q.without...)

	for _, arch := range q.ecs.archetypes {
		if arch.hasAny(excluded) {
			continue
		}
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, row), at(comps2, row), at(comps3, row)) {
				return
			}
		}
	}
}

// column returns the archetype's typed slice for id. A nil slice with ok=true
// means the component is optional and absent from this archetype.
func column[T any](arch *archetype, id componentId, optionals set[componentId]) ([]T, bool) {
	if data, ok := arch.componentData[id]; ok {
		return data.([]T), true
	}
	if _, ok := optionals[id]; ok {
		return nil, true
	}
	return nil, false
}

func at[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func (arch *archetype) hasAny(ids set[componentId]) bool {
	for id := range ids {
		if _, ok := arch.componentData[id]; ok {
			return true
		}
	}
	return false
}

func identifyComponents(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}

	return res
}

func identifyComponent[A any](ecs *Ecs) componentId {
	var a A
	return ecs.getComponentId(reflect.TypeOf(a))
}
