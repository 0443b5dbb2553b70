// Package blockstate defines the persisted block-state record that schemas upgrade.
package blockstate

import (
	"maps"

	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/tag"
)

// State is one placed block variant: an identifier plus typed properties.
type State struct {
	Name       string
	Properties map[string]tag.Value
}

// New creates a State. A nil properties map is replaced by an empty one.
func New(name string, props map[string]tag.Value) State {
	if props == nil {
		props = map[string]tag.Value{}
	}
	return State{Name: name, Properties: props}
}

// Clone returns a copy of s that shares no map with it.
func (s State) Clone() State {
	props := make(map[string]tag.Value, len(s.Properties))
	maps.Copy(props, s.Properties)
	return State{Name: s.Name, Properties: props}
}

// Equal reports whether s and o have the same name and properties.
// A nil and an empty property map are equal.
func (s State) Equal(o State) bool {
	return s.Name == o.Name && maps.Equal(s.Properties, o.Properties)
}

// PropertyNames returns the property names in ascending order.
func (s State) PropertyNames() []string {
	return schema.SortedKeys(s.Properties)
}
