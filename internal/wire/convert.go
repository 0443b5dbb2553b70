package wire

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/tag"
)

// FromSchema converts a schema to its interchange form. It never fails.
// Renamed identifiers are written as "old=>new" entries, so an identifier
// containing "=>" or surrounding whitespace does not survive ToSchema.
func FromSchema(s schema.Schema) Model {
	v := s.MaxVersion()
	m := Model{
		MaxVersionMajor:    int(v.Major),
		MaxVersionMinor:    int(v.Minor),
		MaxVersionPatch:    int(v.Patch),
		MaxVersionRevision: int(v.Revision),
	}

	for _, r := range s.RenamedIDs {
		m.RenamedIDs = append(m.RenamedIDs, Rename(r.Old, r.New))
	}

	if len(s.RenamedProperties) > 0 {
		m.RenamedProperties = make(map[string]map[string]string, len(s.RenamedProperties))
		for block, renames := range s.RenamedProperties {
			m.RenamedProperties[block] = cloneMap(renames)
		}
	}

	if len(s.RemovedProperties) > 0 {
		m.RemovedProperties = make(map[string][]string, len(s.RemovedProperties))
		for block, names := range s.RemovedProperties {
			m.RemovedProperties[block] = slices.Clone(names)
		}
	}

	if len(s.AddedProperties) > 0 {
		m.AddedProperties = make(map[string]map[string]Tag, len(s.AddedProperties))
		for block, props := range s.AddedProperties {
			out := make(map[string]Tag, len(props))
			for name, v := range props {
				out[name] = tagToWire(v)
			}
			m.AddedProperties[block] = out
		}
	}

	if len(s.RemappedPropertyValues) > 0 {
		m.RemappedPropertyValues = make(map[string]map[string][]ValueRemap, len(s.RemappedPropertyValues))
		for block, props := range s.RemappedPropertyValues {
			out := make(map[string][]ValueRemap, len(props))
			for name, remaps := range props {
				list := make([]ValueRemap, 0, len(remaps))
				for _, r := range remaps {
					list = append(list, ValueRemap{Old: tagToWire(r.Old), New: tagToWire(r.New)})
				}
				out[name] = list
			}
			m.RemappedPropertyValues[block] = out
		}
	}

	return m
}

// ToSchema converts an interchange model into a schema.
//
// Conversion stops at the first malformed element and returns no partial
// result. Maps are walked in key order, so the same input always reports the
// same error. Errors wrap wire.ErrSchemaField, tag.ErrUnknownValueType or
// tag.ErrTypeMismatch.
func ToSchema(m Model) (schema.Schema, error) {
	version, err := versionOf(m)
	if err != nil {
		return schema.Schema{}, err
	}
	s := schema.New(version)

	seen := make(map[string]bool, len(m.RenamedIDs))
	for i, entry := range m.RenamedIDs {
		from, to, err := SplitRename(entry)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("renamedIds[%d]: %w", i, err)
		}
		if seen[from] {
			return schema.Schema{}, fmt.Errorf("renamedIds[%d]: %w: %q is renamed more than once", i, ErrSchemaField, from)
		}
		seen[from] = true
		s.RenamedIDs = append(s.RenamedIDs, schema.IDRename{Old: from, New: to})
	}

	for block, renames := range m.RenamedProperties {
		s.RenamedProperties[block] = cloneMap(renames)
	}

	for block, names := range m.RemovedProperties {
		s.RemovedProperties[block] = slices.Clone(names)
	}

	for _, block := range schema.SortedKeys(m.AddedProperties) {
		props := m.AddedProperties[block]
		out := make(map[string]tag.Value, len(props))
		for _, name := range schema.SortedKeys(props) {
			v, err := tagFromWire(props[name])
			if err != nil {
				return schema.Schema{}, fmt.Errorf("addedProperties[%q][%q]: %w", block, name, err)
			}
			out[name] = v
		}
		s.AddedProperties[block] = out
	}

	for _, block := range schema.SortedKeys(m.RemappedPropertyValues) {
		props := m.RemappedPropertyValues[block]
		out := make(map[string][]schema.ValueRemap, len(props))
		for _, name := range schema.SortedKeys(props) {
			remaps := props[name]
			list := make([]schema.ValueRemap, 0, len(remaps))
			for i, r := range remaps {
				oldV, err := tagFromWire(r.Old)
				if err != nil {
					return schema.Schema{}, fmt.Errorf("remappedPropertyValues[%q][%q][%d].old: %w", block, name, i, err)
				}
				newV, err := tagFromWire(r.New)
				if err != nil {
					return schema.Schema{}, fmt.Errorf("remappedPropertyValues[%q][%q][%d].new: %w", block, name, i, err)
				}
				list = append(list, schema.ValueRemap{Old: oldV, New: newV})
			}
			out[name] = list
		}
		s.RemappedPropertyValues[block] = out
	}

	return s, nil
}

func versionOf(m Model) (schema.Version, error) {
	components := []struct {
		field string
		value int
	}{
		{"maxVersionMajor", m.MaxVersionMajor},
		{"maxVersionMinor", m.MaxVersionMinor},
		{"maxVersionPatch", m.MaxVersionPatch},
		{"maxVersionRevision", m.MaxVersionRevision},
	}

	var c [4]uint8
	for i, comp := range components {
		if comp.value < 0 || comp.value > math.MaxUint8 {
			return schema.Version{}, fmt.Errorf("%w: %s: %d is outside 0..255", ErrSchemaField, comp.field, comp.value)
		}
		c[i] = uint8(comp.value)
	}
	return schema.NewVersion(c[0], c[1], c[2], c[3]), nil
}

func tagToWire(v tag.Value) Tag {
	return Tag{Type: string(v.Type()), Value: tag.Native(v)}
}

func tagFromWire(t Tag) (tag.Value, error) {
	return tag.New(t.Type, t.Value)
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
