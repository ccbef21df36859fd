// Package manifest defines the typed schema for remote and merged version
// manifests: libraries, arguments, downloads, asset index references, and
// the rules attached to each.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quasar/mclaunch/internal/mcversion"
	"github.com/quasar/mclaunch/internal/rules"
)

// ReleaseType classifies a version entry.
type ReleaseType string

const (
	ReleaseTypeRelease  ReleaseType = "release"
	ReleaseTypeSnapshot ReleaseType = "snapshot"
	ReleaseTypeOldBeta  ReleaseType = "old_beta"
	ReleaseTypeOldAlpha ReleaseType = "old_alpha"
)

// DownloadKey names one of the artifacts a manifest's "downloads" map may
// carry.
type DownloadKey string

const (
	DownloadClient         DownloadKey = "client"
	DownloadServer         DownloadKey = "server"
	DownloadClientMappings DownloadKey = "client_mappings"
	DownloadServerMappings DownloadKey = "server_mappings"
	DownloadWindowsServer  DownloadKey = "windows_server"
)

// DownloadInfo is one entry of the downloads map.
type DownloadInfo struct {
	Sha1 mcversion.Sha1Sum `json:"sha1"`
	Size int64             `json:"size"`
	URL  string            `json:"url"`
}

// AssetIndexRef points at the remote asset index document for a version.
type AssetIndexRef struct {
	ID        string            `json:"id"`
	Sha1      mcversion.Sha1Sum `json:"sha1"`
	Size      int64             `json:"size"`
	URL       string            `json:"url"`
	TotalSize int64             `json:"totalSize,omitempty"`
}

// JavaVersionReq names the Java runtime component a manifest requires.
type JavaVersionReq struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

// DefaultJavaVersionReq is used whenever a manifest omits javaVersion.
func DefaultJavaVersionReq() JavaVersionReq {
	return JavaVersionReq{Component: "jre-legacy", MajorVersion: 8}
}

// ArtifactInfo is one downloadable file entry (a library artifact or
// classifier).
type ArtifactInfo struct {
	Path string            `json:"path"`
	Sha1 mcversion.Sha1Sum `json:"sha1"`
	Size int64             `json:"size"`
	URL  string            `json:"url"`
}

// LibraryDownloads carries the per-OS download info attached directly to a
// library, when present.
type LibraryDownloads struct {
	Artifact    *ArtifactInfo           `json:"artifact,omitempty"`
	Classifiers map[string]ArtifactInfo `json:"classifiers,omitempty"`
}

// ExtractRules names path prefixes to exclude when expanding a native
// archive.
type ExtractRules struct {
	Exclude []string `json:"exclude,omitempty"`
}

// Library is one entry of a manifest's libraries list.
type Library struct {
	Name      mcversion.MavenCoordinate
	Rules     []rules.Rule                     `json:"rules,omitempty"`
	Natives   map[rules.OperatingSystem]string `json:"natives,omitempty"` // classifier template, may embed ${arch}
	Extract   *ExtractRules                    `json:"extract,omitempty"`
	URL       string                           `json:"url,omitempty"`
	Downloads *LibraryDownloads                `json:"downloads,omitempty"`
}

type libraryJSON struct {
	Name      string                           `json:"name"`
	Rules     []rules.Rule                     `json:"rules,omitempty"`
	Natives   map[rules.OperatingSystem]string `json:"natives,omitempty"`
	Extract   *ExtractRules                    `json:"extract,omitempty"`
	URL       string                           `json:"url,omitempty"`
	Downloads *LibraryDownloads                `json:"downloads,omitempty"`
}

func (l Library) MarshalJSON() ([]byte, error) {
	return json.Marshal(libraryJSON{
		Name: l.Name.Render(), Rules: l.Rules, Natives: l.Natives,
		Extract: l.Extract, URL: l.URL, Downloads: l.Downloads,
	})
}

func (l *Library) UnmarshalJSON(data []byte) error {
	var raw libraryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	coord, err := mcversion.ParseMavenCoordinate(raw.Name)
	if err != nil {
		return fmt.Errorf("manifest: library %q: %w", raw.Name, err)
	}
	*l = Library{Name: coord, Rules: raw.Rules, Natives: raw.Natives, Extract: raw.Extract, URL: raw.URL, Downloads: raw.Downloads}
	return nil
}

// Applies reports whether this library's rule list evaluates to Allow for
// the given environment.
func (l Library) Applies(env rules.EnvironmentFeatures) bool {
	return rules.Evaluate(l.Rules, env) == rules.Allow
}

// HasNatives reports whether this library contributes a native archive
// (rather than a classpath jar) for the current platform.
func (l Library) HasNatives() bool {
	if l.Natives == nil {
		return false
	}
	_, ok := l.Natives[rules.CurrentOS()]
	return ok
}

// Argument is either an unconditional literal (one or more tokens) or a
// conditional contribution gated by a rule list.
type Argument struct {
	Values []string
	Rules  []rules.Rule // empty means unconditional
}

// Applies reports whether this argument's rules allow it to contribute.
func (a Argument) Applies(env rules.EnvironmentFeatures) bool {
	if len(a.Rules) == 0 {
		return true
	}
	return rules.Evaluate(a.Rules, env) == rules.Allow
}

type conditionalArgumentJSON struct {
	Rules []rules.Rule    `json:"rules"`
	Value json.RawMessage `json:"value"`
}

func (a *Argument) UnmarshalJSON(data []byte) error {
	// A bare string token.
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*a = Argument{Values: []string{str}}
		return nil
	}
	var cond conditionalArgumentJSON
	if err := json.Unmarshal(data, &cond); err != nil {
		return fmt.Errorf("manifest: invalid argument entry: %w", err)
	}
	values, err := decodeStringOrList(cond.Value)
	if err != nil {
		return err
	}
	*a = Argument{Values: values, Rules: cond.Rules}
	return nil
}

func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Values) == 1 {
		return json.Marshal(a.Values[0])
	}
	var value any = a.Values
	if len(a.Values) == 1 {
		value = a.Values[0]
	}
	return json.Marshal(struct {
		Rules []rules.Rule `json:"rules"`
		Value any          `json:"value"`
	}{a.Rules, value})
}

func decodeStringOrList(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("manifest: argument value neither string nor list: %w", err)
	}
	return list, nil
}

// Arguments holds the modern argument lists, keyed by type.
type Arguments struct {
	JVM  []Argument `json:"jvm,omitempty"`
	Game []Argument `json:"game,omitempty"`
}

// IsEmpty reports whether no modern arguments of either type are present.
func (a Arguments) IsEmpty() bool { return len(a.JVM) == 0 && len(a.Game) == 0 }

// LoggingConfig names the client logging configuration attached to a
// version, when present. Launching with custom logging configuration is
// carried through for completeness but the launcher does not require it.
type LoggingConfig struct {
	Argument string `json:"argument"`
	File     struct {
		ID   string            `json:"id"`
		Sha1 mcversion.Sha1Sum `json:"sha1"`
		Size int64             `json:"size"`
		URL  string            `json:"url"`
	} `json:"file"`
	Type string `json:"type"`
}

// VersionManifest is the merged form: the authoritative input to the
// launcher once inheritance has been resolved.
type VersionManifest struct {
	ID                     string                       `json:"id"`
	InheritsFrom           string                       `json:"inheritsFrom,omitempty"`
	ReleaseType            ReleaseType                  `json:"type"`
	ReleaseTime            time.Time                    `json:"releaseTime"`
	UpdatedTime            time.Time                    `json:"time"`
	MainClass              string                       `json:"mainClass"`
	Jar                    string                       `json:"jar,omitempty"`
	Assets                 string                       `json:"assets,omitempty"`
	AssetIndex             *AssetIndexRef               `json:"assetIndex,omitempty"`
	Downloads              map[DownloadKey]DownloadInfo `json:"downloads,omitempty"`
	Libraries              []Library                    `json:"libraries,omitempty"`
	Arguments              Arguments                    `json:"arguments"`
	MinecraftArguments     string                       `json:"minecraftArguments,omitempty"`
	JavaVersion            *JavaVersionReq              `json:"javaVersion,omitempty"`
	CompatibilityRules     []rules.Rule                 `json:"compatibilityRules,omitempty"`
	Logging                map[string]LoggingConfig     `json:"logging,omitempty"`
	MinimumLauncherVersion int                          `json:"minimumLauncherVersion,omitempty"`
}

// EffectiveJar returns the jar field, defaulting to the manifest id.
func (m VersionManifest) EffectiveJar() string {
	if m.Jar != "" {
		return m.Jar
	}
	return m.ID
}

// EffectiveJavaVersion returns JavaVersion, defaulting to jre-legacy/8 when
// absent.
func (m VersionManifest) EffectiveJavaVersion() JavaVersionReq {
	if m.JavaVersion != nil {
		return *m.JavaVersion
	}
	return DefaultJavaVersionReq()
}

// CompatibilityVerdict evaluates the manifest's own compatibility_rules
// against env, using the same last-matching-wins policy as any other rule
// list.
func (m VersionManifest) CompatibilityVerdict(env rules.EnvironmentFeatures) rules.Action {
	return rules.Evaluate(m.CompatibilityRules, env)
}
