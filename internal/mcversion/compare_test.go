package mcversion

import "testing"

func TestVersionId_Compare_ReleaseOrdering(t *testing.T) {
	older := ParseVersionId("1.20.1")
	newer := ParseVersionId("1.21.4")
	if older.Compare(newer) >= 0 {
		t.Errorf("expected 1.20.1 < 1.21.4")
	}
	if newer.Compare(older) <= 0 {
		t.Errorf("expected 1.21.4 > 1.20.1")
	}
	if newer.Compare(newer) != 0 {
		t.Errorf("expected equal versions to compare 0")
	}
}

func TestVersionId_Compare_ReleaseOutranksPreRelease(t *testing.T) {
	release := ParseVersionId("1.21.4")
	pre := ParseVersionId("1.21.4-pre2")
	if release.Compare(pre) <= 0 {
		t.Errorf("expected release to outrank its own pre-release")
	}
}

func TestVersionId_Compare_PreReleaseNumberTiebreak(t *testing.T) {
	pre1 := ParseVersionId("1.21.4-pre1")
	pre2 := ParseVersionId("1.21.4-pre2")
	if pre1.Compare(pre2) >= 0 {
		t.Errorf("expected pre1 < pre2")
	}
}

func TestVersionId_Compare_SnapshotFallsBackToRenderTiebreak(t *testing.T) {
	a := ParseVersionId("24w14a")
	b := ParseVersionId("24w13a")
	if a.Compare(b) <= 0 {
		t.Errorf("expected %q > %q under Render tiebreak", a.Render(), b.Render())
	}
}
