package launch

import (
	"context"
	"net/http"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/manifest"
	"github.com/quasar/mclaunch/internal/progress"
)

// Launcher drives one launch of Manifest under Options: downloading
// remaining artifacts, installing the Java runtime, reconstructing legacy
// assets, and spawning the game process.
//
// The on-disk root for versions/, libraries/, assets/, and runtimes/ is
// Options.GameDir; a caller wanting a shared artifact cache across
// multiple game directories should point GameDir at that shared root
// directly.
type Launcher struct {
	Manifest manifest.VersionManifest
	Options  GameOptions
	Client   *http.Client

	Reporter            progress.Reporter
	JavaRuntimeIndexURL string
	DownloadConcurrency int

	assetIndex    manifest.AssetIndex
	hasAssetIndex bool
	machine       stateMachine
}

// NewLauncher builds a Launcher with default concurrency, a discarding
// reporter, and the stock Mojang JRE index URL.
func NewLauncher(m manifest.VersionManifest, opts GameOptions, client *http.Client) *Launcher {
	return &Launcher{
		Manifest:            m,
		Options:             opts,
		Client:              client,
		Reporter:            progress.Empty{},
		JavaRuntimeIndexURL: config.DefaultJavaRuntimeIndexURL,
		DownloadConcurrency: 16,
	}
}

// State reports the launcher's current point in the launch state machine.
func (l *Launcher) State() State { return l.machine.Current() }

// ExitCode returns the child's exit code once State is StateExited.
func (l *Launcher) ExitCode() int { return l.machine.ExitCode() }

// Provision runs everything Run does short of spawning the child process:
// downloading the jar/libraries/assets, installing the Java runtime, and
// reconstructing legacy assets. A caller that only wants a version fully
// materialized on disk (the CLI's "install" subcommand) uses this instead
// of Run.
func (l *Launcher) Provision(ctx context.Context) error {
	l.machine.set(StateResolving)
	l.machine.set(StateDownloading)
	if err := l.downloadAll(ctx); err != nil {
		l.machine.fail(err)
		return err
	}

	l.machine.set(StateInstallingRuntime)
	if err := l.ensureJava(ctx); err != nil {
		l.machine.fail(err)
		return err
	}

	l.machine.set(StateReconstructingAssets)
	if err := l.prepare(ctx); err != nil {
		l.machine.fail(err)
		return err
	}
	return nil
}

// Run drives the full pipeline (Downloading, InstallingRuntime,
// ReconstructingAssets, Spawning) and returns a Handle to the running
// child once Spawning succeeds, transitioning to Running.
func (l *Launcher) Run(ctx context.Context) (*Handle, error) {
	if err := l.Provision(ctx); err != nil {
		return nil, err
	}

	l.machine.set(StateSpawning)
	handle, err := l.spawn(ctx)
	if err != nil {
		l.machine.fail(err)
		return nil, err
	}

	l.machine.set(StateRunning)
	go func() {
		code, waitErr := handle.wait()
		if handle.killed {
			l.machine.kill()
			return
		}
		if waitErr != nil {
			l.machine.fail(waitErr)
			return
		}
		l.machine.exit(code)
	}()

	return handle, nil
}
