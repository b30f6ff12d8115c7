package main

import (
	"math/rand/v2"

	"github.com/plus3/ecscore/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int32
}

type Lifetime struct {
	Remaining float32
}

type Team struct {
	Id uint8
}

type Projectile struct{}

type Sleeping struct {
	Ticks int32
}

const worldSize = 1000

func registerComponents(registry *ecs.TypeRegistry) {
	ecs.MustRegisterComponent[Position](registry)
	ecs.MustRegisterComponent[Velocity](registry)
	ecs.MustRegisterComponent[Health](registry)
	ecs.MustRegisterComponent[Lifetime](registry)
	ecs.MustRegisterComponent[Team](registry)
	ecs.MustRegisterComponent[Projectile](registry)
	ecs.MustRegisterComponent[Sleeping](registry)
}

// randomLayout picks 1 to 5 components for a new entity. Every entity gets a
// Position so that the movement systems have work to do.
func randomLayout(registry *ecs.TypeRegistry, rng *rand.Rand) (*ecs.Layout, error) {
	components := []ecs.LayoutComponent{
		ecs.WithDefault(Position{X: rng.Float32() * worldSize, Y: rng.Float32() * worldSize}),
	}
	optional := []func() ecs.LayoutComponent{
		func() ecs.LayoutComponent {
			return ecs.WithDefault(Velocity{DX: rng.Float32()*2 - 1, DY: rng.Float32()*2 - 1})
		},
		func() ecs.LayoutComponent {
			hp := rng.Int32N(100) + 1
			return ecs.WithDefault(Health{Current: hp, Max: 100})
		},
		func() ecs.LayoutComponent {
			return ecs.WithDefault(Lifetime{Remaining: rng.Float32() * 5})
		},
		func() ecs.LayoutComponent {
			return ecs.WithDefault(Team{Id: uint8(rng.IntN(4))})
		},
		func() ecs.LayoutComponent {
			return ecs.WithComponent[Projectile]()
		},
	}
	for _, i := range rng.Perm(len(optional))[:rng.IntN(len(optional))] {
		components = append(components, optional[i]())
	}
	return ecs.NewLayout(registry, components...)
}

// MovementSystem integrates velocities on the worker pool.
type MovementSystem struct{}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	err := ecs.ParallelForEach2(frame.Entities, func(_ ecs.EntityId, p *Position, v *Velocity) {
		p.X += v.DX * dt
		p.Y += v.DY * dt
		if p.X < 0 || p.X > worldSize {
			v.DX = -v.DX
		}
		if p.Y < 0 || p.Y > worldSize {
			v.DY = -v.DY
		}
	})
	if err != nil {
		panic(err)
	}
}

// LifetimeSystem destroys expired entities and queues a replacement for
// each, keeping the population stable.
type LifetimeSystem struct {
	rng     *rand.Rand
	Expired int64
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	registry := frame.Entities.Registry()
	err := ecs.ForEach1(frame.Entities, func(id ecs.EntityId, l *Lifetime) {
		l.Remaining -= dt
		if l.Remaining > 0 {
			return
		}
		s.Expired++
		frame.Commands.DestroyEntity(frame.Entities, id)
		if layout, err := randomLayout(registry, s.rng); err == nil {
			frame.Commands.CreateEntity(frame.Entities, layout)
		}
	})
	if err != nil {
		panic(err)
	}
}

// RegenSystem heals everything that is not a projectile.
type RegenSystem struct{}

func (s *RegenSystem) Execute(frame *ecs.UpdateFrame) {
	ecs.No1[Projectile](frame.Entities)
	err := ecs.ParallelForEach1(frame.Entities, func(_ ecs.EntityId, h *Health) {
		h.Current = min(h.Max, h.Current+1)
	})
	if err != nil {
		panic(err)
	}
}

// SleepSystem disables a few team members each tick and wakes them up again
// later, churning entities in and out of the disabled groups.
type SleepSystem struct {
	rng    *rand.Rand
	Chance float32
}

func (s *SleepSystem) Execute(frame *ecs.UpdateFrame) {
	e := frame.Entities
	err := ecs.ForEach1(e, func(id ecs.EntityId, _ *Team) {
		if s.rng.Float32() < s.Chance {
			frame.Commands.SetDisabled(e, id, true)
			ecs.DeferAddComponent(frame.Commands, e, id, Sleeping{Ticks: 10})
		}
	})
	if err != nil {
		panic(err)
	}

	ecs.With1[ecs.Disabled](e)
	err = ecs.ForEach1(e, func(id ecs.EntityId, sl *Sleeping) {
		sl.Ticks--
		if sl.Ticks <= 0 {
			ecs.DeferRemoveComponent[Sleeping](frame.Commands, e, id)
			frame.Commands.SetDisabled(e, id, false)
		}
	})
	if err != nil {
		panic(err)
	}
}

// CensusSystem counts team members with the Any filter.
type CensusSystem struct {
	Counted int
}

func (s *CensusSystem) Execute(frame *ecs.UpdateFrame) {
	ecs.Any2[Health, Velocity](frame.Entities)
	s.Counted = 0
	err := ecs.ForEach1(frame.Entities, func(ecs.EntityId, *Team) {
		s.Counted++
	})
	if err != nil {
		panic(err)
	}
}
