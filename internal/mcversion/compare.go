package mcversion

import "github.com/Masterminds/semver/v3"

// semverString renders the release-shaped part of a VersionId as a semver
// string, or "" if this VersionId has no natural semver form.
func (v VersionId) semverString() string {
	switch v.Kind {
	case KindRelease, KindPreReleaseNew, KindReleaseCandidate:
		return v.coreVersion()
	default:
		return ""
	}
}

// Compare orders two VersionIds newest-first-friendly (like semver.Compare):
// negative if v < other, zero if equal, positive if v > other. When either
// side has no semver-shaped core (snapshots, old-style pre-releases, "Other"),
// the two are ordered by comparing their Render() strings.
func (v VersionId) Compare(other VersionId) int {
	vs, os := v.semverString(), other.semverString()
	if vs != "" && os != "" {
		a, errA := semver.NewVersion(vs)
		b, errB := semver.NewVersion(os)
		if errA == nil && errB == nil {
			if c := a.Compare(b); c != 0 {
				return c
			}
			if v.Kind != other.Kind {
				// Same core version: a release outranks its own
				// pre-releases/candidates.
				return rank(v.Kind) - rank(other.Kind)
			}
			return v.N - other.N
		}
	}
	switch {
	case v.Render() < other.Render():
		return -1
	case v.Render() > other.Render():
		return 1
	default:
		return 0
	}
}

func rank(k Kind) int {
	switch k {
	case KindRelease:
		return 2
	case KindReleaseCandidate:
		return 1
	default:
		return 0
	}
}
