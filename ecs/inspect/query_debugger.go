package inspect

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/plus3/ecscore/ecs"
	"github.com/rotisserie/eris"
)

// MatchReport describes which groups and entities a query over a set of
// component types would visit.
type MatchReport struct {
	Types       []string
	Groups      []GroupInfo
	EntityCount int
}

// ComponentTypeNames returns the names of every registered type, sorted.
func ComponentTypeNames(e *ecs.Entities) []string {
	names := typeNames(e.Registry())
	sort.Strings(names)
	return names
}

// MatchTypes reports the groups holding all of the named types and the number
// of enabled entities a query over them would visit.
func MatchTypes(e *ecs.Entities, names ...string) (MatchReport, error) {
	if len(names) == 0 {
		return MatchReport{}, ErrNoTypes
	}

	registry := e.Registry()
	ids := make([]ecs.ComponentTypeId, 0, len(names))
	for _, name := range names {
		t, ok := registry.Lookup(name)
		if !ok {
			return MatchReport{}, eris.Wrapf(ErrUnknownType, "%q", name)
		}
		ids = append(ids, t.Id)
	}
	required := ecs.NewArchetype(ids...)

	report := MatchReport{Types: append([]string(nil), names...)}
	for _, g := range Groups(e, SortByIndex) {
		if matchesGroup(e, g.Index, required) {
			report.Groups = append(report.Groups, g)
		}
	}
	report.EntityCount = e.With(ids...).Count()
	return report, nil
}

func matchesGroup(e *ecs.Entities, index int, required ecs.Archetype) bool {
	groups := e.Groups()
	return index < len(groups) && groups[index].Archetype().ContainsAll(required)
}

// WriteMatch writes a match report followed by the matching groups.
func WriteMatch(w io.Writer, report MatchReport) error {
	_, err := fmt.Fprintf(w, "Query: %s\nMatching groups: %d\nMatching entities: %d\n",
		strings.Join(report.Types, ", "), len(report.Groups), report.EntityCount)
	if err != nil {
		return err
	}
	if len(report.Groups) == 0 {
		return nil
	}
	return WriteGroups(w, report.Groups)
}
