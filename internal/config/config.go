// Package config handles on-disk configuration and the root game directory
// layout (versions/, libraries/, assets/, runtimes/, …).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultJavaRuntimeIndexURL is the Mojang JRE index endpoint used by the
// java runtime installer, keyed by a launchermeta commit.
const DefaultJavaRuntimeIndexURL = "https://launchermeta.mojang.com/v1/products/java-runtime/2ec0cc96c44e5a76b9c8b7c39df7210883d12871/all.json"

// DefaultVersionManifestURL is the remote version index endpoint.
const DefaultVersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// Config holds directory layout and download/runtime defaults.
type Config struct {
	// GameDir is the root of the on-disk game layout: versions/,
	// libraries/, assets/, runtimes/, natives/, server-resource-packs/.
	GameDir string `json:"gameDir"`

	// JavaPath, if set, overrides automatic runtime selection at launch.
	JavaPath string   `json:"javaPath"`
	JVMArgs  []string `json:"jvmArgs"`

	// Download engine defaults.
	DownloadConcurrency int `json:"downloadConcurrency"`
	DownloadRetries     int `json:"downloadRetries"`

	VersionManifestURL  string `json:"versionManifestURL"`
	JavaRuntimeIndexURL string `json:"javaRuntimeIndexURL"`

	LauncherName    string `json:"launcherName"`
	LauncherVersion string `json:"launcherVersion"`
}

// DefaultConfig returns a Config with sensible defaults rooted at the
// platform data directory.
func DefaultConfig() *Config {
	return &Config{
		GameDir:             defaultGameDir(),
		JVMArgs:             nil,
		DownloadConcurrency: 16,
		DownloadRetries:     5,
		VersionManifestURL:  DefaultVersionManifestURL,
		JavaRuntimeIndexURL: DefaultJavaRuntimeIndexURL,
		LauncherName:        "mclaunch",
		LauncherVersion:     "0.1.0",
	}
}

// Load reads config.json from the data directory, falling back to defaults
// when it is absent. Fields present on disk override the defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(dataDir(), "config.json")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.DownloadConcurrency <= 0 {
		cfg.DownloadConcurrency = 16
	}
	if cfg.DownloadRetries <= 0 {
		cfg.DownloadRetries = 5
	}
	return cfg, nil
}

// Save writes config.json to the data directory.
func (c *Config) Save() error {
	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// EnsureLayout creates the on-disk directories a launch assumes exist.
func (c *Config) EnsureLayout() error {
	dirs := []string{
		c.GameDir,
		filepath.Join(c.GameDir, "versions"),
		filepath.Join(c.GameDir, "libraries"),
		filepath.Join(c.GameDir, "assets", "objects"),
		filepath.Join(c.GameDir, "assets", "indexes"),
		filepath.Join(c.GameDir, "runtimes"),
		filepath.Join(c.GameDir, "server-resource-packs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// dataDir is where config.json and profiles.json live. It
// honors $MCLAUNCH_HOME before falling back to the platform data directory.
func dataDir() string {
	if home := os.Getenv("MCLAUNCH_HOME"); home != "" {
		return home
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mclaunch")
	}
	home, _ := os.UserHomeDir()
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "mclaunch")
	}
	return filepath.Join(home, ".local", "share", "mclaunch")
}

// DataDir exposes the resolved data directory to callers (e.g. the CLI's
// profiles store), independent of GameDir which a user may point
// at an existing vanilla-launcher install.
func DataDir() string { return dataDir() }

func defaultGameDir() string {
	if home := os.Getenv("MCLAUNCH_HOME"); home != "" {
		return filepath.Join(home, "game")
	}
	return filepath.Join(dataDir(), "game")
}
