package rules

import "regexp"

// Action is the verdict a Rule contributes when it applies.
type Action string

const (
	Allow    Action = "allow"
	Disallow Action = "disallow"
)

// FeatureType is the closed set of feature flags a Rule may predicate on.
type FeatureType string

const (
	IsDemoUser              FeatureType = "is_demo_user"
	HasCustomResolution     FeatureType = "has_custom_resolution"
	HasQuickPlaysSupport    FeatureType = "has_quick_plays_support"
	IsQuickPlaySingleplayer FeatureType = "is_quick_play_singleplayer"
	IsQuickPlayMultiplayer  FeatureType = "is_quick_play_multiplayer"
	IsQuickPlayRealms       FeatureType = "is_quick_play_realms"
)

// OSRestriction narrows a Rule to a specific platform/arch/OS-version.
type OSRestriction struct {
	Name    *OperatingSystem `json:"name,omitempty"`
	Arch    *string          `json:"arch,omitempty"`
	Version *string          `json:"version,omitempty"` // regex against CurrentOSVersion()
}

func (r OSRestriction) matchesCurrent() bool {
	if r.Name != nil && CurrentOS() != *r.Name {
		return false
	}
	if r.Arch != nil && CurrentArch() != *r.Arch {
		return false
	}
	if r.Version != nil {
		re, err := regexp.Compile(*r.Version)
		if err == nil && !re.MatchString(CurrentOSVersion()) {
			return false
		}
	}
	return true
}

// Rule is a single action/predicate pair from a manifest's rule list.
type Rule struct {
	Action   Action              `json:"action"`
	Features map[FeatureType]any `json:"features,omitempty"`
	OS       *OSRestriction      `json:"os,omitempty"`
}

// EnvironmentFeatures is the caller-supplied snapshot of feature flags
// available for rule evaluation (demo mode, custom resolution, etc.).
type EnvironmentFeatures map[FeatureType]any

// NewEnvironmentFeatures returns an empty snapshot.
func NewEnvironmentFeatures() EnvironmentFeatures { return EnvironmentFeatures{} }

// SetFeature records a feature value in the snapshot.
func (e EnvironmentFeatures) SetFeature(f FeatureType, value any) { e[f] = value }

// compatible reports whether every feature the rule declares is present in
// the snapshot with exactly the declared value.
func (e EnvironmentFeatures) compatible(r Rule) bool {
	for feature, want := range r.Features {
		got, ok := e[feature]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// appliedAction returns the rule's action if both its OS and feature
// predicates hold against env, or ("", false) otherwise.
func (r Rule) appliedAction(env EnvironmentFeatures) (Action, bool) {
	if r.OS != nil && !r.OS.matchesCurrent() {
		return "", false
	}
	if !env.compatible(r) {
		return "", false
	}
	return r.Action, true
}

// Evaluate implements the "last-matching-wins, starting from Disallow"
// policy: the verdict begins at Disallow; each rule whose predicates hold
// overwrites the verdict with its declared action, in list order. An empty
// rule list yields Allow.
func Evaluate(rules []Rule, env EnvironmentFeatures) Action {
	if len(rules) == 0 {
		return Allow
	}
	verdict := Disallow
	for _, r := range rules {
		if action, ok := r.appliedAction(env); ok {
			verdict = action
		}
	}
	return verdict
}
