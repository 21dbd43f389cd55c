package vcon

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultSupportedVersions are the vCon versions this tool fully supports.
// The set is a default, not a constant: callers may override it through
// pipeline configuration.
var DefaultSupportedVersions = []string{"0.0.1", "0.0.2", "0.3.0"}

// CurrentVersion is the latest vCon draft revision this tool tracks.
const CurrentVersion = "0.3.0"

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// WellFormedVersion reports whether v looks like an x.y.z version string.
func WellFormedVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// CompareVersions compares two dot-separated version strings numerically
// per component, so "0.10.0" sorts after "0.2.0". Returns -1, 0, or 1.
// Non-numeric components compare as 0.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
