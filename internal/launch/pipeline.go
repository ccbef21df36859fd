package launch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"

	"github.com/quasar/mclaunch/internal/assets"
	"github.com/quasar/mclaunch/internal/download"
	"github.com/quasar/mclaunch/internal/javart"
	"github.com/quasar/mclaunch/internal/logx"
	"github.com/quasar/mclaunch/internal/mcerrors"
	"github.com/quasar/mclaunch/internal/rules"
)

func (l *Launcher) librariesDir() string { return filepath.Join(l.Options.GameDir, "libraries") }
func (l *Launcher) versionsDir() string  { return filepath.Join(l.Options.GameDir, "versions") }
func (l *Launcher) objectsDir() string   { return filepath.Join(l.Options.GameDir, "assets", "objects") }
func (l *Launcher) runtimesDir() string  { return filepath.Join(l.Options.GameDir, "runtimes") }

// downloadAll runs the two sequential download jobs: "Version & Libraries"
// (game jar, classpath libraries, native archives) then "Resources" (the
// asset index and every asset object), so the reporter can label each
// phase.
func (l *Launcher) downloadAll(ctx context.Context) error {
	env := l.environmentFeatures()

	var libItems []download.Downloadable
	libItems = append(libItems, download.SelectGameJarDownloadable(l.Manifest, l.versionsDir()))
	for _, lib := range l.Manifest.Libraries {
		if !lib.Applies(env) {
			continue
		}
		if lib.HasNatives() {
			if d, ok := download.SelectNativesDownloadable(lib, l.librariesDir()); ok {
				libItems = append(libItems, d)
			}
			continue
		}
		libItems = append(libItems, download.SelectLibraryDownloadable(lib, l.librariesDir()))
	}

	libJob := download.NewJob("Version & Libraries", l.Client, libItems)
	libJob.Concurrency = l.DownloadConcurrency
	libJob.Reporter = l.Reporter
	if err := libJob.Start(ctx); err != nil {
		return err
	}

	if l.Manifest.AssetIndex == nil {
		return nil
	}
	idx, err := assets.FetchIndex(ctx, l.Client, l.Options.GameDir, *l.Manifest.AssetIndex)
	if err != nil {
		return err
	}
	l.assetIndex = idx
	l.hasAssetIndex = true

	assetsHost := "https://resources.download.minecraft.net/"
	var resourceItems []download.Downloadable
	for _, obj := range idx.Objects {
		resourceItems = append(resourceItems, download.SelectAssetObjectDownloadable(l.objectsDir(), assetsHost, obj))
	}

	resourceJob := download.NewJob("Resources", l.Client, resourceItems)
	resourceJob.Concurrency = l.DownloadConcurrency
	resourceJob.Reporter = l.Reporter
	return resourceJob.Start(ctx)
}

// ensureJava resolves Options.JavaPath if the caller left it empty: install
// the manifest's required runtime component via the Mojang installer. A
// caller who wants a system JRE instead sets Options.JavaPath from
// javart.DetectSystemJava before calling Run.
func (l *Launcher) ensureJava(ctx context.Context) error {
	if l.Options.JavaPath != "" {
		return nil
	}
	req := l.Manifest.EffectiveJavaVersion()
	installer := javart.NewInstaller(l.Client, l.JavaRuntimeIndexURL, l.runtimesDir())
	installer.Concurrency = l.DownloadConcurrency
	installer.Reporter = l.Reporter
	path, err := installer.Install(ctx, req.Component)
	if err != nil {
		return err
	}
	l.Options.JavaPath = path
	return nil
}

// prepare is the pre-launch step: verify/create the game directory, ensure
// server-resource-packs/ exists, reconstruct legacy assets, and expand
// native archives into NativesDir.
func (l *Launcher) prepare(ctx context.Context) error {
	info, err := os.Stat(l.Options.GameDir)
	if err != nil {
		if err := os.MkdirAll(l.Options.GameDir, 0o755); err != nil {
			return &mcerrors.LaunchError{Reason: "couldn't create game directory: " + err.Error()}
		}
	} else if !info.IsDir() {
		return &mcerrors.LaunchError{Reason: "game directory is not a directory"}
	}

	if err := os.MkdirAll(filepath.Join(l.Options.GameDir, "server-resource-packs"), 0o755); err != nil {
		return &mcerrors.LaunchError{Reason: "couldn't create server-resource-packs: " + err.Error()}
	}

	if l.hasAssetIndex {
		indexID := l.Manifest.AssetIndex.ID
		target := assets.Target(l.Options.GameDir, indexID, l.assetIndex)
		if err := assets.Reconstruct(l.objectsDir(), target, l.assetIndex); err != nil {
			return err
		}
	}

	return l.extractNatives(ctx)
}

// extractNatives expands every applicable native archive into
// Options.NativesDir, honoring each library's extract.exclude prefixes.
func (l *Launcher) extractNatives(ctx context.Context) error {
	env := l.environmentFeatures()
	if l.Options.NativesDir == "" {
		return nil
	}
	if err := os.MkdirAll(l.Options.NativesDir, 0o755); err != nil {
		return err
	}

	for _, lib := range l.Manifest.Libraries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !lib.Applies(env) || !lib.HasNatives() {
			continue
		}
		classifier := strings.ReplaceAll(lib.Natives[rules.CurrentOS()], "${arch}", rules.CurrentArch())
		withClassifier := lib.Name
		withClassifier.Classifier = classifier
		archivePath := filepath.Join(l.librariesDir(), filepath.FromSlash(withClassifier.Path()))
		if lib.Downloads != nil && lib.Downloads.Classifiers != nil {
			// The archive may have been resolved to an explicit per-OS
			// path distinct from the maven-derived one.
			if a, ok := lib.Downloads.Classifiers[classifier]; ok {
				archivePath = filepath.Join(l.librariesDir(), filepath.FromSlash(a.Path))
			}
		}

		if err := archiver.Unarchive(archivePath, l.Options.NativesDir); err != nil {
			return &mcerrors.UnpackNativesError{Library: lib.Name.Render(), Err: err}
		}
		if lib.Extract != nil {
			for _, prefix := range lib.Extract.Exclude {
				excluded := filepath.Join(l.Options.NativesDir, filepath.FromSlash(prefix))
				if err := os.RemoveAll(excluded); err != nil {
					logx.Warn("launch", "removing excluded native path %s: %v", excluded, err)
				}
			}
		}
	}
	return nil
}
