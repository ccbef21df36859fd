package launch

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quasar/mclaunch/internal/assets"
	"github.com/quasar/mclaunch/internal/logx"
	"github.com/quasar/mclaunch/internal/manifest"
	"github.com/quasar/mclaunch/internal/rules"
)

// substitutionTable builds the ${var} binding table: every recognized
// variable is populated, empty string when unknown rather than left
// absent, plus one "asset=<logical-path>" binding per asset-index entry.
func (l *Launcher) substitutionTable(classpath []string) map[string]string {
	auth := l.Options.Authentication

	userType := "legacy"
	if auth.AccessToken != "" {
		userType = "msa"
	}
	authSession := auth.AccessToken
	if authSession == "" {
		authSession = "-"
	}

	versionName := l.Options.VersionName
	if versionName == "" {
		versionName = l.Manifest.ID
	}

	table := map[string]string{
		"auth_access_token":     auth.AccessToken,
		"auth_session":          authSession,
		"auth_player_name":      auth.PlayerName,
		"auth_uuid":             auth.UUID,
		"user_type":             userType,
		"auth_xuid":             xuidFromToken(auth.AccessToken),
		"user_properties":       "{}",
		"user_properties_map":   "{}",
		"profile_name":          "",
		"version_name":          versionName,
		"version_type":          string(l.Manifest.ReleaseType),
		"game_directory":        l.Options.GameDir,
		"game_assets":           l.gameAssetsDir(),
		"assets_root":           filepath.Join(l.Options.GameDir, "assets"),
		"assets_index_name":     l.assetsIndexName(),
		"resolution_width":      "",
		"resolution_height":     "",
		"language":              "en-us",
		"launcher_name":         l.Options.LauncherName,
		"launcher_version":      l.Options.LauncherVersion,
		"natives_directory":     l.Options.NativesDir,
		"classpath":             strings.Join(classpath, ClasspathSeparator()),
		"classpath_separator":   ClasspathSeparator(),
		"primary_jar":           l.primaryJarPath(),
		"library_directory":     l.librariesDir(),
		"clientid":              "",
		"quickPlayPath":         "",
		"quickPlaySingleplayer": l.Options.SingleplayerWorld,
		"quickPlayMultiplayer":  l.Options.MultiplayerServer,
		"quickPlayRealms":       l.Options.RealmsID,
	}
	if l.Options.hasCustomResolution() {
		table["resolution_width"] = strconv.Itoa(l.Options.Width)
		table["resolution_height"] = strconv.Itoa(l.Options.Height)
	}

	if l.hasAssetIndex {
		for logicalPath, obj := range l.assetIndex.Objects {
			hash := obj.Hash.String()
			table["asset="+logicalPath] = objectPath(l.objectsDir(), hash)
		}
	}

	for k, v := range l.Options.SubstitutorOverrides {
		table[k] = v
	}

	return table
}

// gameAssetsDir is what ${game_assets} resolves to: the reconstructed
// virtual/resources tree for a legacy index, the objects store otherwise.
func (l *Launcher) gameAssetsDir() string {
	if l.hasAssetIndex && l.Manifest.AssetIndex != nil {
		if target := assets.Target(l.Options.GameDir, l.Manifest.AssetIndex.ID, l.assetIndex); target != "" {
			return target
		}
	}
	return l.objectsDir()
}

func (l *Launcher) primaryJarPath() string {
	return filepath.Join(l.versionsDir(), l.Manifest.ID, l.Manifest.EffectiveJar()+".jar")
}

func (l *Launcher) assetsIndexName() string {
	if l.Manifest.AssetIndex != nil {
		return l.Manifest.AssetIndex.ID
	}
	return ""
}

func objectPath(objectsDir, hash string) string {
	return filepath.Join(objectsDir, hash[:2], hash)
}

// substitute rewrites every ${var} occurrence in s using table. An
// unresolved ${...} token is logged and passed through unchanged.
func substitute(s string, table map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "${")
		if start < 0 {
			b.WriteString(s[i:])
			break
		}
		start += i
		b.WriteString(s[i:start])
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s[start:])
			break
		}
		end += start
		name := s[start+2 : end]
		if val, ok := table[name]; ok {
			b.WriteString(val)
		} else {
			logx.Warn("launch", "unresolved substitution variable %q", name)
			b.WriteString(s[start : end+1])
		}
		i = end + 1
	}
	return b.String()
}

// xuidFromToken extracts the "xuid" claim from a JWT access token's payload
// segment. Non-JWT or malformed tokens yield "".
func xuidFromToken(token string) string {
	if token == "" {
		return ""
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var claims struct {
		Xuid string `json:"xuid"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	return claims.Xuid
}

// applyArguments filters a modern argument list by rule and returns the
// concatenated, substituted tokens it contributes, in list order.
func applyArguments(args []manifest.Argument, env rules.EnvironmentFeatures, table map[string]string) []string {
	var out []string
	for _, a := range args {
		if !a.Applies(env) {
			continue
		}
		for _, v := range a.Values {
			out = append(out, substitute(v, table))
		}
	}
	return out
}
