package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_EmptyRulesAllow(t *testing.T) {
	assert.Equal(t, Allow, Evaluate(nil, NewEnvironmentFeatures()))
}

func TestEvaluate_LastMatchingWins(t *testing.T) {
	env := NewEnvironmentFeatures()
	env.SetFeature(IsDemoUser, true)

	rs := []Rule{
		{Action: Allow},
		{Action: Disallow, Features: map[FeatureType]any{IsDemoUser: true}},
	}
	assert.Equal(t, Disallow, Evaluate(rs, env), "later matching rule should override the earlier Allow")
}

func TestEvaluate_NonMatchingFeatureSkipped(t *testing.T) {
	env := NewEnvironmentFeatures()
	env.SetFeature(IsDemoUser, false)

	rs := []Rule{
		{Action: Allow},
		{Action: Disallow, Features: map[FeatureType]any{IsDemoUser: true}},
	}
	assert.Equal(t, Allow, Evaluate(rs, env), "a rule whose feature predicate doesn't hold must not apply")
}

func TestEvaluate_StartsFromDisallowWithNoMatch(t *testing.T) {
	env := NewEnvironmentFeatures()
	rs := []Rule{
		{Action: Allow, Features: map[FeatureType]any{IsDemoUser: true}},
	}
	assert.Equal(t, Disallow, Evaluate(rs, env), "no matching rule means the Disallow start verdict stands")
}

func TestEvaluate_OSRestrictionMatchesCurrentHost(t *testing.T) {
	current := CurrentOS()
	rs := []Rule{
		{Action: Disallow},
		{Action: Allow, OS: &OSRestriction{Name: &current}},
	}
	assert.Equal(t, Allow, Evaluate(rs, NewEnvironmentFeatures()))
}

func TestEvaluate_OSRestrictionExcludesOtherHost(t *testing.T) {
	var other OperatingSystem = OSUnknown
	if CurrentOS() == OSUnknown {
		other = OSLinux
	}
	rs := []Rule{
		{Action: Allow},
		{Action: Disallow, OS: &OSRestriction{Name: &other}},
	}
	assert.Equal(t, Allow, Evaluate(rs, NewEnvironmentFeatures()), "rule restricted to a different OS must not apply")
}

func TestCurrentArch_KnownMapping(t *testing.T) {
	arch := CurrentArch()
	require.NotEmpty(t, arch)
	assert.NotContains(t, []string{"amd64", "386"}, arch, "amd64/386 should be normalized to x64/x86")
}
