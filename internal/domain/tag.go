package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
)

// TagTimestampLayout is the time layout embedded in backup tag names.
const TagTimestampLayout = "20060102-150405"

var (
	// remoteTagRegex matches version tags in `git ls-remote --tags` output.
	remoteTagRegex = regexp.MustCompile(`refs/tags/v(\d+)\.(\d+)\.(\d+)-`)
	// tagNameRegex matches a complete backup tag name.
	tagNameRegex = regexp.MustCompile(`^v\d+\.\d+\.\d+-\d{8}-\d{6}$`)
)

// FormatTag builds the tag name for version v created at now.
func FormatTag(v Version, now time.Time) string {
	sv := semver.New(v.Major, v.Minor, v.Patch, now.Format(TagTimestampLayout), "")
	return "v" + sv.String()
}

// ValidateTagName checks that name has the v<major>.<minor>.<patch>-<timestamp> shape.
func ValidateTagName(name string) error {
	if !tagNameRegex.MatchString(name) {
		return fmt.Errorf("invalid tag name %q: expected vX.Y.Z-YYYYMMDD-HHMMSS", name)
	}
	sv, err := semver.NewVersion(name)
	if err != nil {
		return fmt.Errorf("invalid tag name %q: %w", name, err)
	}
	if _, err := time.ParseInLocation(TagTimestampLayout, sv.Prerelease(), time.Local); err != nil {
		return fmt.Errorf("invalid tag timestamp in %q: %w", name, err)
	}
	return nil
}

// ScanRemoteVersions extracts every version tag reference from lines and
// returns the greatest one. The boolean is false when nothing matched.
func ScanRemoteVersions(lines []string) (Version, bool) {
	return ScanRemoteVersionsFunc(lines, nil)
}

// ScanRemoteVersionsFunc is ScanRemoteVersions with a callback for version
// tags that match the pattern but cannot be parsed. onSkip may be nil.
func ScanRemoteVersionsFunc(lines []string, onSkip func(line string, err error)) (Version, bool) {
	var (
		latest Version
		found  bool
	)
	for _, line := range lines {
		v, ok, err := parseRemoteTagLine(line)
		if err != nil && onSkip != nil {
			onSkip(line, err)
		}
		if !ok {
			continue
		}
		if !found || v.Compare(latest) > 0 {
			latest = v
			found = true
		}
	}
	return latest, found
}

// parseRemoteTagLine returns ok=false for lines outside the pattern, and an
// error when a matching component does not fit in a uint64.
func parseRemoteTagLine(line string) (Version, bool, error) {
	m := remoteTagRegex.FindStringSubmatch(line)
	if m == nil {
		return Version{}, false, nil
	}
	var parts [3]uint64
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return Version{}, false, fmt.Errorf("invalid version component %q: %w", m[i+1], err)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, true, nil
}
