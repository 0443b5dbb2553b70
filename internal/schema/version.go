package schema

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Version is a (major, minor, patch, revision) game version.
// Versions order lexicographically over the tuple.
type Version struct {
	Major    uint8
	Minor    uint8
	Patch    uint8
	Revision uint8
}

// NewVersion creates a Version from its components.
func NewVersion(major, minor, patch, revision uint8) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Revision: revision}
}

// VersionFromID unpacks a version id produced by ID.
func VersionFromID(id uint32) Version {
	return Version{
		Major:    uint8(id >> 24),
		Minor:    uint8(id >> 16),
		Patch:    uint8(id >> 8),
		Revision: uint8(id),
	}
}

// ID packs the version into a single integer, one byte per component.
// IDs order the same way as versions.
func (v Version) ID() uint32 {
	return uint32(v.Major)<<24 | uint32(v.Minor)<<16 | uint32(v.Patch)<<8 | uint32(v.Revision)
}

// Compare returns -1, 0 or +1 as v is less than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	return cmp.Compare(v.ID(), o.ID())
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// String returns the dotted form, e.g. "1.16.0.14".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Revision)
}

// ParseVersion parses a dotted version with one to four components.
// Missing trailing components are zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 4 || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: expected 1 to 4 dot-separated components", s)
	}

	var c [4]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: component %d: must be 0..255", s, i+1)
		}
		c[i] = uint8(n)
	}
	return NewVersion(c[0], c[1], c[2], c[3]), nil
}
