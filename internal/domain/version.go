package domain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// digitBase is the overflow point for minor and patch components.
const digitBase = 10

// Version is a major.minor.patch triple whose minor and patch components
// behave like decimal digits: incrementing past 9 carries into the next one.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion parses a plain version such as "0.6.0" or "v1.2.3".
// Prerelease and build metadata are ignored.
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch()}, nil
}

// Increment returns the next version using base-10 carry rules.
func (v Version) Increment() Version {
	next := v
	next.Patch++
	if next.Patch >= digitBase {
		next.Patch = 0
		next.Minor++
	}
	if next.Minor >= digitBase {
		next.Minor = 0
		next.Major++
	}
	return next
}

// Compare orders versions by major, then minor, then patch.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

// String returns the version without a v prefix, e.g. "1.2.3".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
