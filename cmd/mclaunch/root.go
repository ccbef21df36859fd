// Command mclaunch is a CLI front end over the provisioning/launch engine:
// list and install versions, launch the game, and manage remembered launch
// profiles.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/download"
)

var rootCmd = &cobra.Command{
	Use:   "mclaunch",
	Short: "Provision and launch Minecraft client versions",
}

var (
	gameDirFlag     = flag.String("game-dir", "", "root game directory (defaults to the configured data directory)")
	concurrencyFlag = flag.Int("concurrency", 0, "download concurrency (defaults to config)")
)

func init() {
	versionsCmd.Flags().AddGoFlag(flag.Lookup("game-dir"))

	installCmd.Flags().AddGoFlag(flag.Lookup("game-dir"))
	installCmd.Flags().AddGoFlag(flag.Lookup("concurrency"))

	launchCmd.Flags().AddGoFlag(flag.Lookup("game-dir"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("concurrency"))

	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(profilesCmd)
}

// loadConfig loads the persisted config and applies any flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *gameDirFlag != "" {
		cfg.GameDir = *gameDirFlag
	}
	if *concurrencyFlag > 0 {
		cfg.DownloadConcurrency = *concurrencyFlag
	}
	return cfg, nil
}

// newHTTPClient builds the retrying, cache-disabled HTTP client every
// download/java-runtime component shares. Proxy may be nil.
func newHTTPClient(retries int, proxy *download.Proxy) *http.Client {
	return download.NewClient(retries, proxy)
}

func main() {
	flag.Parse()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
