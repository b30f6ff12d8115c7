package inspect

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/plus3/ecscore/ecs"
	"github.com/rotisserie/eris"
)

// FieldValue is a flattened component field. Nested struct fields use dotted
// paths, e.g. "Bounds.Min.X".
type FieldValue struct {
	Path  string
	Type  string
	Value string
}

// ComponentDescription holds the values of one component of an entity.
type ComponentDescription struct {
	Name   string
	Size   uintptr
	Fields []FieldValue
}

// EntityDescription is a snapshot of every component of an entity.
type EntityDescription struct {
	ID         ecs.EntityId
	Group      int
	Archetype  string
	Disabled   bool
	Components []ComponentDescription
}

// DescribeEntity copies out the component values of id.
func DescribeEntity(e *ecs.Entities, id ecs.EntityId) (EntityDescription, error) {
	ref, ok := e.Location(id)
	if !ok {
		return EntityDescription{}, eris.Wrapf(ecs.ErrInvalidEntityId, "entity %d", id)
	}

	desc := EntityDescription{ID: id, Group: -1, Archetype: ecs.Archetype{}.String()}
	if ref.Group == nil {
		return desc, nil
	}
	desc.Group = ref.Group.Index()
	desc.Archetype = ref.Group.Archetype().String()

	registry := e.Registry()
	for typeId := range ref.Group.Archetype().Types() {
		if typeId == ecs.DisabledTypeId {
			desc.Disabled = true
			continue
		}
		t, _ := registry.Type(typeId)
		value, err := e.ComponentValue(id, typeId)
		if err != nil {
			return EntityDescription{}, eris.Wrapf(err, "reading %s", t.Name)
		}
		desc.Components = append(desc.Components, ComponentDescription{
			Name:   t.Name,
			Size:   t.Size,
			Fields: describeValue(reflect.ValueOf(value)),
		})
	}
	return desc, nil
}

// describeValue flattens v. Non-struct components yield a single field with
// an empty path.
func describeValue(v reflect.Value) []FieldValue {
	if v.Kind() != reflect.Struct {
		return []FieldValue{{Type: v.Type().String(), Value: formatValue(v)}}
	}
	var out []FieldValue
	appendFields(&out, "", v)
	return out
}

func appendFields(out *[]FieldValue, prefix string, v reflect.Value) {
	for _, field := range globalReflectionCache.GetFields(v.Type()) {
		path := prefix + field.Name
		fieldVal := v.Field(field.Index)
		if field.IsStruct && len(globalReflectionCache.GetFields(field.Type)) > 0 {
			appendFields(out, path+".", fieldVal)
			continue
		}
		*out = append(*out, FieldValue{
			Path:  path,
			Type:  field.Type.String(),
			Value: formatValue(fieldVal),
		})
	}
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Float32:
		return fmt.Sprintf("%.4g", v.Float())
	case reflect.Float64:
		return fmt.Sprintf("%.6g", v.Float())
	case reflect.Array:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = formatValue(v.Index(i))
		}
		return "[" + strings.Join(parts, " ") + "]"
	case reflect.Struct:
		if v.NumField() == 0 {
			return "{}"
		}
		return fmt.Sprintf("%+v", v.Interface())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// WriteEntity writes desc as an indented block.
func WriteEntity(w io.Writer, desc EntityDescription) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity %d", desc.ID)
	if desc.Disabled {
		b.WriteString(" (disabled)")
	}
	fmt.Fprintf(&b, "\n  archetype: %s\n", desc.Archetype)
	if desc.Group >= 0 {
		fmt.Fprintf(&b, "  group: %d\n", desc.Group)
	}
	for _, c := range desc.Components {
		fmt.Fprintf(&b, "  %s (%d bytes)\n", c.Name, c.Size)
		for _, f := range c.Fields {
			if f.Path == "" {
				fmt.Fprintf(&b, "    = %s\n", f.Value)
				continue
			}
			fmt.Fprintf(&b, "    %s: %s\n", f.Path, f.Value)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
