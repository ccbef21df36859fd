package manifest

import "github.com/quasar/mclaunch/internal/rules"

// Merge overlays child onto an already-fully-resolved parent, producing a
// fresh manifest; neither input is mutated. This is the single merge step of
// the inheritance chain: recursion and cycle detection live in the version
// registry, which calls Merge once per link once it has the parent's own
// fully-resolved manifest in hand.
func Merge(parent, child VersionManifest) VersionManifest {
	merged := parent

	// Always replace.
	merged.ID = child.ID
	merged.ReleaseTime = child.ReleaseTime
	merged.UpdatedTime = child.UpdatedTime
	merged.ReleaseType = child.ReleaseType

	// Replace only when present in the child.
	if child.MainClass != "" {
		merged.MainClass = child.MainClass
	}
	if child.Assets != "" {
		merged.Assets = child.Assets
	}
	if child.Jar != "" {
		merged.Jar = child.Jar
	}
	if child.AssetIndex != nil {
		merged.AssetIndex = child.AssetIndex
	}
	if child.MinecraftArguments != "" {
		merged.MinecraftArguments = child.MinecraftArguments
	}
	if child.JavaVersion != nil {
		merged.JavaVersion = child.JavaVersion
	}

	// Libraries: child first, so child libraries win classpath order.
	if len(child.Libraries) > 0 {
		libs := make([]Library, 0, len(child.Libraries)+len(merged.Libraries))
		libs = append(libs, child.Libraries...)
		libs = append(libs, merged.Libraries...)
		merged.Libraries = libs
	}

	// Modern arguments: concatenated per type, child before parent.
	if !child.Arguments.IsEmpty() {
		merged.Arguments.JVM = append(append([]Argument{}, child.Arguments.JVM...), merged.Arguments.JVM...)
		merged.Arguments.Game = append(append([]Argument{}, child.Arguments.Game...), merged.Arguments.Game...)
	}

	// Compatibility rules: appended, parent then child.
	if len(child.CompatibilityRules) > 0 {
		merged.CompatibilityRules = append(append([]rules.Rule{}, merged.CompatibilityRules...), child.CompatibilityRules...)
	}

	merged.InheritsFrom = ""
	return merged
}
