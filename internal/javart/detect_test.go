package javart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMajorVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    int
	}{
		{"Java 8 old format", "1.8.0_391", 8},
		{"Java 8 short", "1.8.0", 8},
		{"Java 11", "11.0.21", 11},
		{"Java 17", "17.0.9", 17},
		{"Java 21", "21.0.1", 21},
		{"Java 21 short", "21", 21},
		{"Empty string", "", 0},
		{"Invalid", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMajorVersion(tt.version))
		})
	}
}

func TestParseVersionOutput_OpenJDK21(t *testing.T) {
	d := NewDetector()
	output := `openjdk version "21.0.1" 2023-10-17
OpenJDK Runtime Environment (build 21.0.1+12-29)
OpenJDK 64-Bit Server VM (build 21.0.1+12-29, mixed mode, sharing)`

	inst := d.parseVersionOutput("/usr/bin/java", output)

	if assert.NotNil(t, inst) {
		assert.Equal(t, 21, inst.MajorVersion)
		assert.True(t, inst.Is64Bit)
		assert.Equal(t, "OpenJDK", inst.Vendor)
	}
}

func TestParseVersionOutput_Temurin(t *testing.T) {
	d := NewDetector()
	output := `openjdk version "17.0.9" 2023-10-17
OpenJDK Runtime Environment Temurin-17.0.9+9 (build 17.0.9+9)
OpenJDK 64-Bit Server VM Temurin-17.0.9+9 (build 17.0.9+9, mixed mode)`

	inst := d.parseVersionOutput("/usr/bin/java", output)

	if assert.NotNil(t, inst) {
		assert.Equal(t, "Eclipse Adoptium", inst.Vendor)
	}
}

func TestFormatInstallation(t *testing.T) {
	inst := &Installation{Path: "/usr/bin/java", Version: "21.0.1", MajorVersion: 21, Is64Bit: true, Vendor: "OpenJDK"}
	assert.Equal(t, "Java 21 (OpenJDK, 64-bit)", FormatInstallation(inst))
}

func TestFormatInstallation_Unknown(t *testing.T) {
	inst := &Installation{Path: "/usr/bin/java", MajorVersion: 17, Is64Bit: false}
	assert.Equal(t, "Java 17 (Unknown, 32-bit)", FormatInstallation(inst))
}

func TestDetectSystemJava_NoneFound(t *testing.T) {
	// FindAll also probes JAVA_HOME and PATH; empty both so nothing is found.
	t.Setenv("JAVA_HOME", "")
	t.Setenv("PATH", t.TempDir())
	d := &Detector{searchPaths: nil}
	assert.Nil(t, d.FindBest(999))
}
