package ecs

// UpdateFrame is passed to every system during a tick. Structural changes made
// from query callbacks go through Commands, which the scheduler executes after
// the last system has run.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *CommandBuffer
	Entities  *Entities
}

func newUpdateFrame(entities *Entities) *UpdateFrame {
	return &UpdateFrame{
		Commands: NewCommandBuffer(),
		Entities: entities,
	}
}
