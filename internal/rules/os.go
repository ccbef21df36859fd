// Package rules implements the OS/arch/feature rule-evaluation engine that
// governs which libraries, arguments, and natives apply to the current host.
package rules

import (
	"runtime"
	"strings"
)

// OperatingSystem is the closed set of platforms a Rule can restrict on.
type OperatingSystem string

const (
	OSLinux   OperatingSystem = "linux"
	OSWindows OperatingSystem = "windows"
	OSOsx     OperatingSystem = "osx"
	OSUnknown OperatingSystem = "unknown"
)

func (o OperatingSystem) aliases() []string {
	switch o {
	case OSLinux:
		return []string{"linux", "unix"}
	case OSWindows:
		return []string{"win"}
	case OSOsx:
		return []string{"mac", "darwin"}
	default:
		return nil
	}
}

// CurrentOS scans runtime.GOOS for the known aliases. Osx is probed before
// Windows: "darwin" contains the "win" substring.
func CurrentOS() OperatingSystem {
	name := strings.ToLower(runtime.GOOS)
	for _, os := range []OperatingSystem{OSOsx, OSLinux, OSWindows} {
		for _, alias := range os.aliases() {
			if strings.Contains(name, alias) {
				return os
			}
		}
	}
	return OSUnknown
}

// CurrentArch reports "x64" for amd64, "x86" for 386, or the raw GOARCH.
func CurrentArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return runtime.GOARCH
	}
}
