package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List or remove remembered launch profiles",
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)
}

func openProfileStore() (*profile.Store, error) {
	return profile.Open(filepath.Join(profileDir(), "profiles.json"))
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every remembered launch profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openProfileStore()
		if err != nil {
			return err
		}
		profiles := store.List()
		sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
		for _, p := range profiles {
			fmt.Printf("%-20s %-20s %s\n", p.Name, p.Version, p.GameDir)
		}
		return nil
	},
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a remembered launch profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openProfileStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}
