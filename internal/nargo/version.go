package nargo

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultExpectedVersion is the nargo release the artifact format is known
// to match.
const DefaultExpectedVersion = "0.19.4"

var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// ParseVersion extracts the version token from `nargo --version` output.
func ParseVersion(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "nargo") {
			continue
		}
		if m := versionPattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		return "", false
	}
	return "", false
}

// CheckVersion compares `nargo --version` output with the expected version
// (major.minor.patch only) and with an optional semver constraint. It returns
// the detected version and any mismatches found.
func CheckVersion(output, expected, constraint string) (string, []*VersionMismatchWarning) {
	found, ok := ParseVersion(output)
	if !ok {
		return "", []*VersionMismatchWarning{{Expected: expected, Output: output}}
	}

	var warnings []*VersionMismatchWarning
	v, err := semver.NewVersion(found)
	if err != nil {
		return "", []*VersionMismatchWarning{{Expected: expected, Output: output}}
	}

	if want, err := semver.NewVersion(expected); err != nil || !sameRelease(v, want) {
		warnings = append(warnings, &VersionMismatchWarning{Expected: expected, Found: found, Output: output})
	}

	if constraint != "" {
		c, err := semver.NewConstraint(constraint)
		if err == nil && !c.Check(v) {
			warnings = append(warnings, &VersionMismatchWarning{Expected: expected, Constraint: constraint, Found: found, Output: output})
		}
	}
	return found, warnings
}

func sameRelease(a, b *semver.Version) bool {
	return a.Major() == b.Major() && a.Minor() == b.Minor() && a.Patch() == b.Patch()
}
