package main

import (
	"bufio"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/quasar/mclaunch/internal/download"
	"github.com/quasar/mclaunch/internal/launch"
	"github.com/quasar/mclaunch/internal/profile"
	"github.com/quasar/mclaunch/internal/registry"
)

var (
	launchProfileFlag = flag.String("profile", "", "save/update this run as a named launch profile")
	launchJavaFlag    = flag.String("java", "", "path to the java executable (defaults to the configured javaPath, then the Mojang-installed runtime)")
	launchUserFlag    = flag.String("username", "Player", "offline player name")
	launchDemoFlag    = flag.Bool("demo", false, "launch in demo mode")
	launchWidthFlag   = flag.Int("width", 0, "window width")
	launchHeightFlag  = flag.Int("height", 0, "window height")
	launchProxyHost   = flag.String("proxy-host", "", "SOCKS proxy host")
	launchProxyPort   = flag.Int("proxy-port", 0, "SOCKS proxy port")
	launchQuickPlaySP = flag.String("quick-play-singleplayer", "", "world name to enter directly on launch (Quick Play)")
	launchQuickPlayMP = flag.String("quick-play-multiplayer", "", "server address to join directly on launch (Quick Play)")
)

func init() {
	launchCmd.Flags().AddGoFlag(flag.Lookup("profile"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("java"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("username"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("demo"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("width"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("height"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("proxy-host"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("proxy-port"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("quick-play-singleplayer"))
	launchCmd.Flags().AddGoFlag(flag.Lookup("quick-play-multiplayer"))
}

var launchCmd = &cobra.Command{
	Use:   "launch <version-id>",
	Short: "Provision if necessary and launch a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.EnsureLayout(); err != nil {
			return err
		}

		versionID := args[0]
		var proxy *download.Proxy
		if *launchProxyHost != "" {
			proxy = &download.Proxy{Host: *launchProxyHost, Port: *launchProxyPort}
		}
		client := newHTTPClient(cfg.DownloadRetries, proxy)
		reg := registry.New(cfg.GameDir, cfg.VersionManifestURL)
		if err := reg.Refresh(cmd.Context()); err != nil {
			return err
		}

		m, err := reg.ResolveLocalVersion(cmd.Context(), versionID, true, false)
		if err != nil {
			return err
		}

		javaPath := *launchJavaFlag
		if javaPath == "" {
			javaPath = cfg.JavaPath
		}
		opts := launch.GameOptions{
			JavaPath:   javaPath,
			GameDir:    cfg.GameDir,
			NativesDir: filepath.Join(cfg.GameDir, "natives", m.ID),
			Authentication: launch.Authentication{
				PlayerName: *launchUserFlag,
				UUID:       "00000000-0000-0000-0000-000000000000",
			},
			Width:             *launchWidthFlag,
			Height:            *launchHeightFlag,
			Demo:              *launchDemoFlag,
			LauncherName:      cfg.LauncherName,
			LauncherVersion:   cfg.LauncherVersion,
			JVMArgsOverride:   cfg.JVMArgs,
			SingleplayerWorld: *launchQuickPlaySP,
			MultiplayerServer: *launchQuickPlayMP,
			QuickPlaySupport:  *launchQuickPlaySP != "" || *launchQuickPlayMP != "",
			Proxy:             proxy,
		}

		l := launch.NewLauncher(m, opts, client)
		l.DownloadConcurrency = cfg.DownloadConcurrency
		l.JavaRuntimeIndexURL = cfg.JavaRuntimeIndexURL
		l.Reporter = newConsoleReporter()

		handle, err := l.Run(cmd.Context())
		if err != nil {
			return err
		}

		if *launchProfileFlag != "" {
			if err := saveProfile(*launchProfileFlag, versionID, opts); err != nil {
				fmt.Printf("warning: couldn't save profile %q: %v\n", *launchProfileFlag, err)
			}
		}

		go streamLines("stdout", handle.Stdout)
		go streamLines("stderr", handle.Stderr)

		code, err := waitForExit(l)
		if err != nil {
			return err
		}
		fmt.Printf("game exited with code %d\n", code)
		return nil
	},
}

func streamLines(label string, scanner *bufio.Scanner) {
	for scanner.Scan() {
		fmt.Printf("[%s] %s\n", label, scanner.Text())
	}
}

// waitForExit polls the launcher's state machine until it leaves
// StateRunning, reporting the observed terminal state.
func waitForExit(l *launch.Launcher) (int, error) {
	for {
		switch l.State() {
		case launch.StateExited:
			return l.ExitCode(), nil
		case launch.StateKilled:
			return -1, nil
		case launch.StateFailed:
			return -1, fmt.Errorf("launch failed")
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func saveProfile(name, versionID string, opts launch.GameOptions) error {
	store, err := profile.Open(filepath.Join(profileDir(), "profiles.json"))
	if err != nil {
		return err
	}
	return store.Put(&profile.Profile{
		Name:       name,
		Version:    versionID,
		GameDir:    opts.GameDir,
		JavaPath:   opts.JavaPath,
		JVMArgs:    opts.JVMArgsOverride,
		Width:      opts.Width,
		Height:     opts.Height,
		Demo:       opts.Demo,
		PlayerName: opts.Authentication.PlayerName,
		LastPlayed: time.Now(),
	})
}
