package rules

import (
	"os/exec"
	"runtime"
	"strings"
)

// CurrentOSVersion returns a best-effort version string for the current
// host, used to match a Rule's os.version regex. Most manifests never
// populate this restriction; when they do it is almost always a Windows
// build-number match, so Windows is given the most care here.
func CurrentOSVersion() string {
	switch runtime.GOOS {
	case "windows":
		if out, err := exec.Command("cmd", "/c", "ver").Output(); err == nil {
			return strings.TrimSpace(string(out))
		}
	case "darwin":
		if out, err := exec.Command("sw_vers", "-productVersion").Output(); err == nil {
			return strings.TrimSpace(string(out))
		}
	default:
		if out, err := exec.Command("uname", "-r").Output(); err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	return "unknown"
}
