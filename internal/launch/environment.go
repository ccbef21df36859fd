package launch

import "github.com/quasar/mclaunch/internal/rules"

// environmentFeatures builds the EnvironmentFeatures snapshot rule
// evaluation runs against for this launch, derived from the
// caller-supplied GameOptions.
func (l *Launcher) environmentFeatures() rules.EnvironmentFeatures {
	env := rules.NewEnvironmentFeatures()
	env.SetFeature(rules.IsDemoUser, l.Options.Demo)
	env.SetFeature(rules.HasCustomResolution, l.Options.hasCustomResolution())
	env.SetFeature(rules.HasQuickPlaysSupport, l.Options.QuickPlaySupport)
	env.SetFeature(rules.IsQuickPlaySingleplayer, l.Options.SingleplayerWorld != "")
	env.SetFeature(rules.IsQuickPlayMultiplayer, l.Options.MultiplayerServer != "")
	env.SetFeature(rules.IsQuickPlayRealms, l.Options.RealmsID != "")
	return env
}
