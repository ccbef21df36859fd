package main

import (
	"flag"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/api"
	"github.com/quasar/mclaunch/internal/config"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Look up an account's profile from an existing access token",
}

var accountsTokenFlag = flag.String("token", "", "a previously-obtained Mojang/Xbox access token")

func init() {
	accountsWhoamiCmd.Flags().AddGoFlag(flag.Lookup("token"))
	accountsCmd.AddCommand(accountsWhoamiCmd)
}

// profileDir is where profiles.json (and any other per-user CLI state)
// lives, distinct from the game's own on-disk layout.
func profileDir() string { return config.DataDir() }

var accountsWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Fetch the player name/UUID for --token via the session-server profile endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if *accountsTokenFlag == "" {
			return fmt.Errorf("--token is required; mclaunch does not perform the sign-in flow itself")
		}
		client := api.NewProfileClient()
		prof, err := client.FetchProfile(cmd.Context(), *accountsTokenFlag)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", prof.Name, prof.ID)
		return nil
	},
}
