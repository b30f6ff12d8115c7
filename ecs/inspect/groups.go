package inspect

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/plus3/ecscore/ecs"
)

// GroupInfo is one row of the group table.
type GroupInfo struct {
	Index          int
	Archetype      string
	ComponentTypes []string
	EntityCount    int
	ChunkCount     int
	ChunkCapacity  int
}

// Fill returns the share of allocated slots holding an entity.
func (g GroupInfo) Fill() float64 {
	slots := g.ChunkCount * g.ChunkCapacity
	if slots == 0 {
		return 0
	}
	return float64(g.EntityCount) / float64(slots)
}

// GroupSort selects the ordering of the group table.
type GroupSort int

const (
	SortByIndex GroupSort = iota
	SortByEntityCount
	SortByComponentCount
	SortByComponents
)

// Groups returns a row per entity group, ordered by sortBy. Ties keep
// creation order.
func Groups(e *ecs.Entities, sortBy GroupSort) []GroupInfo {
	stats := e.CollectStats()
	groups := make([]GroupInfo, 0, len(stats.GroupBreakdown))
	for _, g := range stats.GroupBreakdown {
		groups = append(groups, GroupInfo{
			Index:          g.Index,
			Archetype:      g.Archetype.String(),
			ComponentTypes: g.ComponentTypes,
			EntityCount:    g.EntityCount,
			ChunkCount:     g.ChunkCount,
			ChunkCapacity:  g.ChunkCapacity,
		})
	}
	sortGroups(groups, sortBy)
	return groups
}

func sortGroups(groups []GroupInfo, sortBy GroupSort) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch sortBy {
		case SortByEntityCount:
			return a.EntityCount > b.EntityCount
		case SortByComponentCount:
			return len(a.ComponentTypes) > len(b.ComponentTypes)
		case SortByComponents:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			return a.Index < b.Index
		}
	})
}

// WriteGroups writes the group table.
func WriteGroups(w io.Writer, groups []GroupInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tARCHETYPE\tCOMPONENTS\tENTITIES\tCHUNKS\tCAPACITY\tFILL")
	for _, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%.0f%%\n",
			g.Index, g.Archetype, componentList(g.ComponentTypes),
			g.EntityCount, g.ChunkCount, g.ChunkCapacity, g.Fill()*100)
	}
	return tw.Flush()
}

func componentList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
