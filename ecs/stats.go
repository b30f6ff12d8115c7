package ecs

// StorageStats is a point-in-time summary of an Entities instance.
type StorageStats struct {
	GroupCount       int
	TotalEntityCount int
	// EmptyEntityCount counts live entities that hold no components and so live in no group.
	EmptyEntityCount int
	ChunkCount       int
	ChunkSize        int
	AllocatedBytes   int
	GroupBreakdown   []GroupStats
}

// GroupStats describes one entity group.
type GroupStats struct {
	Index          int
	Archetype      Archetype
	ComponentTypes []string
	EntityCount    int
	ChunkCount     int
	ChunkCapacity  int
}

// CollectStats gathers storage statistics. It walks every group, so call it
// from tooling rather than per frame.
func (e *Entities) CollectStats() StorageStats {
	stats := StorageStats{
		ChunkSize: e.opts.ChunkSize,
	}

	grouped := 0
	for _, g := range e.groups.groups() {
		names := make([]string, 0, g.archetype.Count())
		for id := range g.archetype.Types() {
			names = append(names, e.registry.typeInfo(id).Name)
		}
		stats.GroupBreakdown = append(stats.GroupBreakdown, GroupStats{
			Index:          g.index,
			Archetype:      g.archetype,
			ComponentTypes: names,
			EntityCount:    g.count,
			ChunkCount:     len(g.chunks),
			ChunkCapacity:  g.capacity,
		})
		grouped += g.count
		stats.ChunkCount += len(g.chunks)
	}

	stats.GroupCount = len(stats.GroupBreakdown)
	stats.TotalEntityCount = e.locations.len()
	stats.EmptyEntityCount = stats.TotalEntityCount - grouped
	stats.AllocatedBytes = stats.ChunkCount * e.opts.ChunkSize
	return stats
}
