package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}

	if !strings.Contains(info.Platform, "/") {
		t.Error("Platform should contain OS/ARCH format")
	}

	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Error("GoVersion should start with 'go'")
	}
}

func TestGetVersionString(t *testing.T) {
	versionStr := GetVersionString()

	if !strings.Contains(versionStr, "ConnectIQ") {
		t.Error("Version string should contain 'ConnectIQ'")
	}

	if !strings.Contains(versionStr, Version) {
		t.Error("Version string should contain the version number")
	}
}

func TestGetVersionString_WithCommit(t *testing.T) {
	orig := GitCommit
	defer func() { GitCommit = orig }()

	GitCommit = "abc1234"
	versionStr := GetVersionString()

	if !strings.Contains(versionStr, "abc1234") {
		t.Error("Version string should contain the commit hash")
	}
}

func TestGetDetailedVersionString(t *testing.T) {
	detailed := GetDetailedVersionString()

	for _, want := range []string{"ConnectIQ", "commit:", "branch:", "build date:", "go version:", "platform:"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("Detailed version string should contain %q", want)
		}
	}
}