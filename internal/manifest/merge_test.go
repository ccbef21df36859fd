package manifest

import (
	"testing"

	"github.com/quasar/mclaunch/internal/mcversion"
	"github.com/quasar/mclaunch/internal/rules"
)

func TestMerge_ChildOverridesScalarFields(t *testing.T) {
	parent := VersionManifest{ID: "1.21", MainClass: "net.minecraft.client.main.Main", InheritsFrom: ""}
	child := VersionManifest{ID: "fabric-1.21", MainClass: "net.fabricmc.loader.impl.launch.knot.KnotClient", InheritsFrom: "1.21"}

	merged := Merge(parent, child)
	if merged.ID != "fabric-1.21" {
		t.Errorf("ID = %q, want child's id", merged.ID)
	}
	if merged.MainClass != "net.fabricmc.loader.impl.launch.knot.KnotClient" {
		t.Errorf("MainClass = %q, want child's override", merged.MainClass)
	}
	if merged.InheritsFrom != "" {
		t.Errorf("InheritsFrom = %q, want empty after merge", merged.InheritsFrom)
	}
}

func TestMerge_EmptyChildFieldsKeepParent(t *testing.T) {
	parent := VersionManifest{ID: "1.21", Assets: "11", Jar: "1.21"}
	child := VersionManifest{ID: "fabric-1.21"}

	merged := Merge(parent, child)
	if merged.Assets != "11" {
		t.Errorf("Assets = %q, want parent's value preserved", merged.Assets)
	}
	if merged.Jar != "1.21" {
		t.Errorf("Jar = %q, want parent's value preserved", merged.Jar)
	}
}

func TestMerge_LibrariesChildFirst(t *testing.T) {
	parentLib := Library{Name: mustCoord(t, "com.mojang:blocklist:1.0.10")}
	childLib := Library{Name: mustCoord(t, "net.fabricmc:fabric-loader:0.16.9")}

	parent := VersionManifest{Libraries: []Library{parentLib}}
	child := VersionManifest{Libraries: []Library{childLib}}

	merged := Merge(parent, child)
	if len(merged.Libraries) != 2 {
		t.Fatalf("got %d libraries, want 2", len(merged.Libraries))
	}
	if merged.Libraries[0].Name.Render() != childLib.Name.Render() {
		t.Errorf("expected child library first for classpath precedence, got %+v", merged.Libraries[0].Name)
	}
}

func TestMerge_ModernArgumentsConcatenated(t *testing.T) {
	parent := VersionManifest{Arguments: Arguments{Game: []Argument{{Values: []string{"--username", "${auth_player_name}"}}}}}
	child := VersionManifest{Arguments: Arguments{Game: []Argument{{Values: []string{"--fabric.development", "true"}}}}}

	merged := Merge(parent, child)
	if len(merged.Arguments.Game) != 2 {
		t.Fatalf("got %d game arguments, want 2", len(merged.Arguments.Game))
	}
	if merged.Arguments.Game[0].Values[0] != "--fabric.development" {
		t.Errorf("expected child arguments first, got %+v", merged.Arguments.Game[0])
	}
}

func TestMerge_CompatibilityRulesAppendedParentThenChild(t *testing.T) {
	parent := VersionManifest{}
	child := VersionManifest{}
	parent.CompatibilityRules = nil
	child.CompatibilityRules = nil

	merged := Merge(parent, child)
	if len(merged.CompatibilityRules) != 0 {
		t.Errorf("expected no compatibility rules when neither side has any")
	}

	parent.CompatibilityRules = []rules.Rule{{Action: rules.Allow}}
	child.CompatibilityRules = []rules.Rule{{Action: rules.Disallow}}

	merged = Merge(parent, child)
	if len(merged.CompatibilityRules) != 2 {
		t.Fatalf("got %d compatibility rules, want 2", len(merged.CompatibilityRules))
	}
	if merged.CompatibilityRules[0].Action != rules.Allow || merged.CompatibilityRules[1].Action != rules.Disallow {
		t.Errorf("expected parent rule then child rule, got %+v", merged.CompatibilityRules)
	}
}

func mustCoord(t *testing.T, s string) mcversion.MavenCoordinate {
	t.Helper()
	c, err := mcversion.ParseMavenCoordinate(s)
	if err != nil {
		t.Fatalf("ParseMavenCoordinate(%q) failed: %v", s, err)
	}
	return c
}
