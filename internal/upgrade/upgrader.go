package upgrade

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/tag"
)

// ErrUnordered is returned by New when max versions decrease along the list.
var ErrUnordered = errors.New("schemas not ordered by max version")

// Upgrader upgrades block states through an ordered list of schemas.
type Upgrader struct {
	schemas []schema.Schema
}

// New creates an Upgrader. The schemas must be oldest first, as returned by
// loader.LoadSchemas, with non-decreasing max versions.
func New(schemas []schema.Schema) (*Upgrader, error) {
	for i := 1; i < len(schemas); i++ {
		prev, cur := schemas[i-1].MaxVersion(), schemas[i].MaxVersion()
		if cur.Less(prev) {
			return nil, fmt.Errorf("%w: schema %d (max version %s) follows schema %d (max version %s)",
				ErrUnordered, i, cur, i-1, prev)
		}
	}
	return &Upgrader{schemas: slices.Clone(schemas)}, nil
}

// Schemas returns a copy of the schema list.
func (u *Upgrader) Schemas() []schema.Schema {
	return slices.Clone(u.schemas)
}

// LatestVersion returns the highest max version, or the zero Version when
// there are no schemas. States at this version need no upgrade.
func (u *Upgrader) LatestVersion() schema.Version {
	if len(u.schemas) == 0 {
		return schema.Version{}
	}
	return u.schemas[len(u.schemas)-1].MaxVersion()
}

// NeedsUpgrade reports whether any schema applies to states written at from.
func (u *Upgrader) NeedsUpgrade(from schema.Version) bool {
	return u.firstApplicable(from) < len(u.schemas)
}

// Upgrade returns state as it would be written by the latest version.
// state is not modified.
func (u *Upgrader) Upgrade(state blockstate.State, from schema.Version) blockstate.State {
	out := state.Clone()
	for _, s := range u.schemas[u.firstApplicable(from):] {
		out = apply(s, out)
	}
	return out
}

// Step is the state produced by one applied schema.
type Step struct {
	Version schema.Version
	State   blockstate.State
}

// UpgradeSteps is Upgrade with every intermediate state recorded, one Step
// per applied schema in application order. The last Step's State equals
// Upgrade(state, from). Returns an empty slice when nothing applies.
func (u *Upgrader) UpgradeSteps(state blockstate.State, from schema.Version) []Step {
	applicable := u.schemas[u.firstApplicable(from):]
	steps := make([]Step, 0, len(applicable))
	cur := state
	for _, s := range applicable {
		cur = apply(s, cur.Clone())
		steps = append(steps, Step{Version: s.MaxVersion(), State: cur})
	}
	return steps
}

// firstApplicable returns the index of the first schema whose max version
// is above from. Because max versions never decrease, every later schema
// applies too.
func (u *Upgrader) firstApplicable(from schema.Version) int {
	return sort.Search(len(u.schemas), func(i int) bool {
		return from.Less(u.schemas[i].MaxVersion())
	})
}

// apply runs one schema over state, which it owns and may modify.
func apply(s schema.Schema, state blockstate.State) blockstate.State {
	if renamed, ok := s.RenamedID(state.Name); ok {
		state.Name = renamed
	}
	name := state.Name

	for _, prop := range s.RemovedProperties[name] {
		delete(state.Properties, prop)
	}

	if renames := s.RenamedProperties[name]; len(renames) > 0 {
		state.Properties = renameProperties(state.Properties, renames)
	}

	for prop, remaps := range s.RemappedPropertyValues[name] {
		cur, ok := state.Properties[prop]
		if !ok {
			continue
		}
		if v, ok := remapValue(cur, remaps); ok {
			state.Properties[prop] = v
		}
	}

	for prop, v := range s.AddedProperties[name] {
		if _, exists := state.Properties[prop]; !exists {
			state.Properties[prop] = v
		}
	}

	return state
}

// renameProperties applies all renames at once against the original names,
// so swaps like a→b, b→a work. A renamed property replaces an untouched
// property that already had the target name; when two renames collide the
// one whose old name sorts last wins.
func renameProperties(props map[string]tag.Value, renames map[string]string) map[string]tag.Value {
	out := make(map[string]tag.Value, len(props))
	for k, v := range props {
		if _, renamed := renames[k]; !renamed {
			out[k] = v
		}
	}
	for _, k := range schema.SortedKeys(props) {
		if to, renamed := renames[k]; renamed {
			out[to] = props[k]
		}
	}
	return out
}

// remapValue returns the replacement for cur from the first matching entry.
func remapValue(cur tag.Value, remaps []schema.ValueRemap) (tag.Value, bool) {
	for _, r := range remaps {
		if r.Old == cur {
			return r.New, true
		}
	}
	return nil, false
}
