// Package wire holds the interchange form of a schema and its converters.
//
// Model mirrors schema.Schema field for field but carries property values as
// untyped {type, value} pairs, because JSON and YAML cannot express the closed
// tag variant. ToSchema is the only way back and enforces every type rule.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrSchemaField is returned when a required field is missing or malformed.
var ErrSchemaField = errors.New("schema field error")

// RenameSeparator joins old and new identifiers in the list form of renamedIds.
const RenameSeparator = "=>"

// Model is the document form of one schema file.
type Model struct {
	MaxVersionMajor    int `json:"maxVersionMajor" yaml:"maxVersionMajor"`
	MaxVersionMinor    int `json:"maxVersionMinor" yaml:"maxVersionMinor"`
	MaxVersionPatch    int `json:"maxVersionPatch" yaml:"maxVersionPatch"`
	MaxVersionRevision int `json:"maxVersionRevision" yaml:"maxVersionRevision"`

	RenamedIDs             RenameList                         `json:"renamedIds,omitempty" yaml:"renamedIds,omitempty"`
	RenamedProperties      map[string]map[string]string       `json:"renamedProperties,omitempty" yaml:"renamedProperties,omitempty"`
	RemovedProperties      map[string][]string                `json:"removedProperties,omitempty" yaml:"removedProperties,omitempty"`
	AddedProperties        map[string]map[string]Tag          `json:"addedProperties,omitempty" yaml:"addedProperties,omitempty"`
	RemappedPropertyValues map[string]map[string][]ValueRemap `json:"remappedPropertyValues,omitempty" yaml:"remappedPropertyValues,omitempty"`
}

// Tag is an untyped property value.
type Tag struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// ValueRemap is one old→new value substitution.
type ValueRemap struct {
	Old Tag `json:"old" yaml:"old"`
	New Tag `json:"new" yaml:"new"`
}

// RenameList holds identifier renames as "old=>new" strings.
//
// It decodes from either a list of "old=>new" strings or an old→new mapping.
// The mapping form has no order of its own, so its entries are sorted by old
// identifier. RenameList always encodes as the list form.
type RenameList []string

// Rename formats a single list entry. Identifiers that contain
// RenameSeparator or carry surrounding whitespace cannot be read back by
// SplitRename.
func Rename(from, to string) string {
	return from + RenameSeparator + to
}

// SplitRename parses a single list entry. Whitespace around either
// identifier is dropped. An entry with more than one separator is rejected
// rather than split at an arbitrary point.
func SplitRename(entry string) (from, to string, err error) {
	from, to, ok := strings.Cut(entry, RenameSeparator)
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return "", "", fmt.Errorf("%w: renamedIds entry %q: expected \"old%snew\"", ErrSchemaField, entry, RenameSeparator)
	}
	if strings.Contains(to, RenameSeparator) {
		return "", "", fmt.Errorf("%w: renamedIds entry %q: more than one %q", ErrSchemaField, entry, RenameSeparator)
	}
	return from, to, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *RenameList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: renamedIds: empty value", ErrSchemaField)
	}

	switch data[0] {
	case '[':
		var entries []string
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("%w: renamedIds: %v", ErrSchemaField, err)
		}
		*l = entries
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("%w: renamedIds: %v", ErrSchemaField, err)
		}
		*l = fromMapping(m)
	case 'n':
		*l = nil
	default:
		return fmt.Errorf("%w: renamedIds: must be a list or an object", ErrSchemaField)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *RenameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var entries []string
		if err := node.Decode(&entries); err != nil {
			return fmt.Errorf("%w: renamedIds: %v", ErrSchemaField, err)
		}
		*l = entries
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("%w: renamedIds: %v", ErrSchemaField, err)
		}
		*l = fromMapping(m)
	default:
		return fmt.Errorf("%w: renamedIds: must be a list or a mapping", ErrSchemaField)
	}
	return nil
}

func fromMapping(m map[string]string) RenameList {
	olds := make([]string, 0, len(m))
	for k := range m {
		olds = append(olds, k)
	}
	slices.Sort(olds)

	l := make(RenameList, 0, len(olds))
	for _, old := range olds {
		l = append(l, Rename(old, m[old]))
	}
	return l
}
