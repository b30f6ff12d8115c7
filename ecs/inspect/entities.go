package inspect

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/plus3/ecscore/ecs"
)

// EntityInfo is one row of an entity listing.
type EntityInfo struct {
	ID             ecs.EntityId
	Group          int
	ComponentTypes []string
	Disabled       bool
}

// EntityFilter narrows an entity listing.
type EntityFilter struct {
	// Text matches entities with a component whose name contains it, ignoring case.
	Text string
	// Group keeps only entities of the group with this index when non-nil.
	Group *int
	// Page and PerPage select a window of the sorted result. PerPage <= 0 returns everything.
	Page    int
	PerPage int
}

// ListEntities returns the live entities accepted by filter, sorted by id,
// and the number of matches before paging.
func ListEntities(e *ecs.Entities, filter EntityFilter) ([]EntityInfo, int) {
	names := typeNames(e.Registry())
	needle := strings.ToLower(filter.Text)

	var out []EntityInfo
	for id := range e.All() {
		ref, _ := e.Location(id)
		info := EntityInfo{ID: id, Group: -1}
		if ref.Group != nil {
			info.Group = ref.Group.Index()
			for typeId := range ref.Group.Archetype().Types() {
				if typeId == ecs.DisabledTypeId {
					info.Disabled = true
					continue
				}
				info.ComponentTypes = append(info.ComponentTypes, names[typeId])
			}
		}
		if filter.Group != nil && info.Group != *filter.Group {
			continue
		}
		if needle != "" && !containsName(info.ComponentTypes, needle) {
			continue
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := len(out)
	if filter.PerPage > 0 {
		start := min(max(filter.Page, 0)*filter.PerPage, total)
		end := min(start+filter.PerPage, total)
		out = out[start:end]
	}
	return out, total
}

func containsName(names []string, needle string) bool {
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), needle) {
			return true
		}
	}
	return false
}

func typeNames(r *ecs.TypeRegistry) []string {
	types := r.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	return names
}

// WriteEntities writes an entity listing.
func WriteEntities(w io.Writer, entities []EntityInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tGROUP\tCOMPONENTS\tCOUNT")
	for _, info := range entities {
		id := fmt.Sprint(info.ID)
		if info.Disabled {
			id += " (disabled)"
		}
		group := "-"
		if info.Group >= 0 {
			group = fmt.Sprint(info.Group)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", id, group, componentList(info.ComponentTypes), len(info.ComponentTypes))
	}
	return tw.Flush()
}
