package schema

import (
	"fmt"
	"strings"
)

// Describe renders s as operator-facing text, one line per operation,
// grouped under fixed section headers. Output is stable for equal input.
func Describe(s Schema) string {
	var lines []string
	lines = append(lines, "Max version: "+s.maxVersion.String())

	lines = append(lines, "Renames:")
	for _, r := range s.RenamedIDs {
		lines = append(lines, fmt.Sprintf("- %s => %s", r.Old, r.New))
	}

	lines = append(lines, "Added properties:")
	for _, block := range SortedKeys(s.AddedProperties) {
		props := s.AddedProperties[block]
		for _, name := range SortedKeys(props) {
			lines = append(lines, fmt.Sprintf("- %s has %s added: %s", block, name, props[name]))
		}
	}

	lines = append(lines, "Removed properties:")
	for _, block := range SortedKeys(s.RemovedProperties) {
		for _, name := range s.RemovedProperties[block] {
			lines = append(lines, fmt.Sprintf("- %s has %s removed", block, name))
		}
	}

	lines = append(lines, "Renamed properties:")
	for _, block := range SortedKeys(s.RenamedProperties) {
		renames := s.RenamedProperties[block]
		for _, old := range SortedKeys(renames) {
			lines = append(lines, fmt.Sprintf("- %s has %s renamed to %s", block, old, renames[old]))
		}
	}

	lines = append(lines, "Remapped property values:")
	for _, block := range SortedKeys(s.RemappedPropertyValues) {
		props := s.RemappedPropertyValues[block]
		for _, name := range SortedKeys(props) {
			for _, r := range props[name] {
				lines = append(lines, fmt.Sprintf("- %s has %s value changed from %s to %s", block, name, r.Old, r.New))
			}
		}
	}

	return strings.Join(lines, "\n")
}
