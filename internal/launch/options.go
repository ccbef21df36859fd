// Package launch implements the launcher core: argument and classpath
// assembly, the substitution table, and spawning the game process.
package launch

import (
	"github.com/quasar/mclaunch/internal/download"
)

// Authentication carries a pre-obtained session; performing the MSA/Xbox
// device-code flow itself is out of scope (see internal/api for the
// session-server profile lookup a caller can use to obtain these values).
type Authentication struct {
	AccessToken string
	PlayerName  string
	UUID        string
}

// GameOptions is the Launcher's input beyond the merged manifest.
type GameOptions struct {
	JavaPath       string
	GameDir        string
	NativesDir     string
	Authentication Authentication

	// Width/Height are both required to be >0 for HasCustomResolution to
	// apply.
	Width, Height int
	Demo          bool

	// QuickPlay fields gate the IsQuickPlaySingleplayer /
	// IsQuickPlayMultiplayer / IsQuickPlayRealms / HasQuickPlaysSupport
	// features. At most one of SingleplayerWorld, MultiplayerServer,
	// RealmsID should be set.
	QuickPlaySupport  bool
	SingleplayerWorld string
	MultiplayerServer string
	RealmsID          string

	Proxy *download.Proxy

	LauncherName    string
	LauncherVersion string

	// DockIconPath, if set, is emitted alongside the legacy macOS
	// -Xdock:name argument.
	DockIconPath string

	// JVMArgsOverride, if non-nil, is emitted verbatim in place of the
	// manifest-derived JVM argument list.
	JVMArgsOverride []string

	// SubstitutorOverrides layers additional or overriding ${var} bindings
	// on top of the standard substitution table.
	SubstitutorOverrides map[string]string

	// VersionName, if set, overrides ${version_name} (e.g. a modpack
	// display name) without affecting path resolution, which always uses
	// the manifest's own id.
	VersionName string
}

func (o GameOptions) hasCustomResolution() bool {
	return o.Width > 0 && o.Height > 0
}
