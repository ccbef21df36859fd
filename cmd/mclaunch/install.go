package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/launch"
	"github.com/quasar/mclaunch/internal/registry"
)

var installCmd = &cobra.Command{
	Use:   "install <version-id>",
	Short: "Materialize a version's jar, libraries, assets, and Java runtime on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.EnsureLayout(); err != nil {
			return err
		}

		client := newHTTPClient(cfg.DownloadRetries, nil)
		reg := registry.New(cfg.GameDir, cfg.VersionManifestURL)
		if err := reg.Refresh(cmd.Context()); err != nil {
			return err
		}

		manifest, err := reg.ResolveLocalVersion(cmd.Context(), args[0], true, false)
		if err != nil {
			return err
		}

		l := launch.NewLauncher(manifest, launch.GameOptions{GameDir: cfg.GameDir}, client)
		l.DownloadConcurrency = cfg.DownloadConcurrency
		l.JavaRuntimeIndexURL = cfg.JavaRuntimeIndexURL
		l.Reporter = newConsoleReporter()

		if err := l.Provision(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("installed %s under %s\n", manifest.ID, cfg.GameDir)
		return nil
	},
}
