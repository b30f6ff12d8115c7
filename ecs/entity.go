package ecs

// EntityId identifies an entity within one Entities instance. Zero is never issued.
type EntityId uint32

// InvalidEntityId is the zero id, used to mean "no entity".
const InvalidEntityId EntityId = 0

// EntityReference locates an entity's row. A nil Group means the entity
// currently holds no components.
type EntityReference struct {
	Group *EntityGroup
	Chunk int32
	Slot  int32
}
