package launch

import (
	"strconv"
	"strings"

	"github.com/quasar/mclaunch/internal/rules"
)

// buildArgv assembles the full argv for the java process in assembly
// order: JVM args, main class, game args, proxy args.
func (l *Launcher) buildArgv(env rules.EnvironmentFeatures) ([]string, error) {
	classpath, err := l.buildClasspath(env)
	if err != nil {
		return nil, err
	}
	table := l.substitutionTable(classpath)

	var argv []string
	argv = append(argv, l.jvmArgs(env, table)...)
	argv = append(argv, l.Manifest.MainClass)
	argv = append(argv, l.gameArgs(env, table)...)
	argv = append(argv, l.proxyArgs()...)

	if rules.CurrentOS() == rules.OSWindows {
		for i, a := range argv {
			argv[i] = strings.ReplaceAll(a, `"`, `\"`)
		}
	}
	return argv, nil
}

// jvmArgs picks the JVM argument source: caller override, modern
// manifest arguments, or the legacy canonical set.
func (l *Launcher) jvmArgs(env rules.EnvironmentFeatures, table map[string]string) []string {
	if l.Options.JVMArgsOverride != nil {
		return append([]string(nil), l.Options.JVMArgsOverride...)
	}

	if !l.Manifest.Arguments.IsEmpty() {
		return applyArguments(l.Manifest.Arguments.JVM, env, table)
	}

	return l.legacyJVMArgs(table)
}

// legacyJVMArgs emits the canonical legacy JVM arg set plus the
// platform-specific additions: the Windows HeapDumpPath workaround and
// Windows-10 os.name/os.version override, and the macOS Dock icon/name
// pair.
func (l *Launcher) legacyJVMArgs(table map[string]string) []string {
	args := []string{
		substitute("-Djava.library.path=${natives_directory}", table),
		substitute("-Dminecraft.launcher.brand=${launcher_name}", table),
		substitute("-Dminecraft.launcher.version=${launcher_version}", table),
		substitute("-Dminecraft.client.jar=${primary_jar}", table),
		"-cp",
		table["classpath"],
	}

	switch rules.CurrentOS() {
	case rules.OSWindows:
		args = append(args,
			`-XX:HeapDumpPath=MojangTricksIntelDriversForPerformance_javaw.exe_minecraft.exe.heapdump`,
			"-Dos.name=Windows 10", "-Dos.version=10.0",
		)
	case rules.OSOsx:
		args = append(args, "-Xdock:name="+l.launcherDisplayName())
		if l.Options.DockIconPath != "" {
			args = append(args, "-Xdock:icon="+l.Options.DockIconPath)
		}
	}
	return args
}

func (l *Launcher) launcherDisplayName() string {
	if l.Options.LauncherName != "" {
		return l.Options.LauncherName
	}
	return "Minecraft"
}

// gameArgs builds the game argument list: modern args filter by rule and
// substitute; legacy args substitute the whitespace-split string and
// append --demo / --width --height per feature flags.
func (l *Launcher) gameArgs(env rules.EnvironmentFeatures, table map[string]string) []string {
	if !l.Manifest.Arguments.IsEmpty() {
		return applyArguments(l.Manifest.Arguments.Game, env, table)
	}

	var args []string
	if l.Manifest.MinecraftArguments != "" {
		for _, tok := range strings.Fields(l.Manifest.MinecraftArguments) {
			args = append(args, substitute(tok, table))
		}
	}

	if l.Options.Demo {
		args = append(args, "--demo")
	}
	if l.Options.hasCustomResolution() {
		args = append(args, "--width", strconv.Itoa(l.Options.Width), "--height", strconv.Itoa(l.Options.Height))
	}
	return args
}

// proxyArgs emits --proxyHost/--proxyPort (and credentials) when a proxy
// is configured.
func (l *Launcher) proxyArgs() []string {
	p := l.Options.Proxy
	if p == nil {
		return nil
	}
	args := []string{"--proxyHost", p.Host, "--proxyPort", strconv.Itoa(p.Port)}
	if p.Username != "" {
		args = append(args, "--proxyUser", p.Username, "--proxyPass", p.Password)
	}
	return args
}
