package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should be filled from the build info")
	}
}

func TestGetPrefersLdflagsValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" || info.GitCommit != "abc1234" {
		t.Errorf("info = %+v, want the ldflags values", info)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q, want the ldflags value", info.BuildTime)
	}
}

func TestShortWithCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"

	if got := Short(); !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("Short = %q, want 1.2.0-abc1234 prefix", got)
	}
}

func TestShortWithoutCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""

	if got := Short(); !strings.HasPrefix(got, "dev") {
		t.Errorf("Short = %q, want dev prefix", got)
	}
}

func TestStringIncludesBuildTime(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	got := String()
	if !strings.Contains(got, "1.2.0-abc1234") || !strings.Contains(got, "built 2026-01-15T10:30:00Z") {
		t.Errorf("String = %q", got)
	}
}

func TestShortCommitTruncation(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortCommit = %q, want 0123456", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit = %q, want abc", got)
	}
}
