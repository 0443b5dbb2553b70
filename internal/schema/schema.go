package schema

import (
	"slices"

	"github.com/roach88/statemig/internal/tag"
)

// IDRename maps an old block identifier to its replacement.
type IDRename struct {
	Old string
	New string
}

// ValueRemap replaces a property value equal to Old with New.
type ValueRemap struct {
	Old tag.Value
	New tag.Value
}

// Schema is one version-upgrade step for block states.
//
// A Schema upgrades states written at versions below MaxVersion. It is built
// once by the loader and must not be modified afterwards; every map is keyed
// by block identifier.
type Schema struct {
	maxVersion Version

	// RenamedIDs is ordered for diagnostics only; old identifiers are unique.
	RenamedIDs []IDRename

	// AddedProperties holds defaults inserted for states lacking the property.
	AddedProperties map[string]map[string]tag.Value

	// RemovedProperties lists property names to delete.
	RemovedProperties map[string][]string

	// RenamedProperties maps old property names to new ones.
	RenamedProperties map[string]map[string]string

	// RemappedPropertyValues lists value substitutions per property, first match wins.
	RemappedPropertyValues map[string]map[string][]ValueRemap
}

// New creates an empty Schema for the given max version.
func New(maxVersion Version) Schema {
	return Schema{
		maxVersion:             maxVersion,
		AddedProperties:        map[string]map[string]tag.Value{},
		RemovedProperties:      map[string][]string{},
		RenamedProperties:      map[string]map[string]string{},
		RemappedPropertyValues: map[string]map[string][]ValueRemap{},
	}
}

// MaxVersion returns the version this schema upgrades to.
func (s Schema) MaxVersion() Version {
	return s.maxVersion
}

// RenamedID returns the new identifier for name, if this schema renames it.
func (s Schema) RenamedID(name string) (string, bool) {
	for _, r := range s.RenamedIDs {
		if r.Old == name {
			return r.New, true
		}
	}
	return "", false
}

// IsEmpty reports whether the schema carries no operations.
func (s Schema) IsEmpty() bool {
	return len(s.RenamedIDs) == 0 &&
		len(s.AddedProperties) == 0 &&
		len(s.RemovedProperties) == 0 &&
		len(s.RenamedProperties) == 0 &&
		len(s.RemappedPropertyValues) == 0
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
