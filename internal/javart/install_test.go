package javart

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJavaExecutablePath_MinecraftJavaExe(t *testing.T) {
	got := JavaExecutablePath("/runtimes", "minecraft-java-exe", "windows-x64")
	assert.Equal(t, "/runtimes/minecraft-java-exe/windows-x64/MinecraftJava.exe", got)
}

func TestJavaExecutablePath_DefaultsToBinJava(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("exercises the non-Windows, non-macOS default path")
	}
	got := JavaExecutablePath("/runtimes", "jre-legacy", "linux")
	assert.Equal(t, "/runtimes/jre-legacy/linux/bin/java", got)
}

func TestPlatformStrings(t *testing.T) {
	qualified, base, err := platformStrings()
	assert.NoError(t, err)
	assert.NotEmpty(t, base)
	assert.Contains(t, qualified, base)
}
