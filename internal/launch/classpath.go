package launch

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/quasar/mclaunch/internal/download"
	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/rules"
)

// ClasspathSeparator is ";" on Windows, ":" elsewhere.
func ClasspathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// buildClasspath assembles the classpath: every applicable library without
// natives contributes its jar path, the version's own jar is appended
// last, and any missing on-disk file is fatal
// (ClasspathFileNotFoundError).
func (l *Launcher) buildClasspath(env rules.EnvironmentFeatures) ([]string, error) {
	var entries []string
	for _, lib := range l.Manifest.Libraries {
		if !lib.Applies(env) || lib.HasNatives() {
			continue
		}
		path := download.LibraryJarPath(lib, l.librariesDir())
		if _, err := os.Stat(path); err != nil {
			return nil, &mcerrors.ClasspathFileNotFoundError{Path: path}
		}
		entries = append(entries, path)
	}

	jarPath := filepath.Join(l.versionsDir(), l.Manifest.ID, l.Manifest.EffectiveJar()+".jar")
	if _, err := os.Stat(jarPath); err != nil {
		return nil, &mcerrors.ClasspathFileNotFoundError{Path: jarPath}
	}
	entries = append(entries, jarPath)

	return entries, nil
}
