package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/registry"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List available and locally installed versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg := registry.New(cfg.GameDir, cfg.VersionManifestURL)
		if err := reg.Refresh(cmd.Context()); err != nil {
			return err
		}

		idx := reg.RemoteIndex()
		versions := append([]registry.RemoteVersionInfo{}, idx.Versions...)
		sort.Slice(versions, func(i, j int) bool {
			return versions[i].ReleaseTime.After(versions[j].ReleaseTime)
		})

		fmt.Printf("latest release: %s, latest snapshot: %s\n\n", idx.Latest.Release, idx.Latest.Snapshot)
		for _, v := range versions {
			fmt.Printf("%-25s %-10s %s\n", v.ID, v.ReleaseType, v.ReleaseTime.Format("2006-01-02"))
		}
		return nil
	},
}
