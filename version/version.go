package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/kbukum/adapterkit/version.Version=1.2.0 \
//	  -X github.com/kbukum/adapterkit/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/kbukum/adapterkit/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build description served on the version endpoint.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Modified  bool   `json:"modified"`
}

// Get assembles the build info: ldflags values first, the binary's embedded
// VCS metadata filling anything left unset.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// Short returns a compact single-line version, "1.2.0-abc1234" style.
func Short() string {
	info := Get()
	parts := []string{info.Version}
	if info.GitCommit != "" {
		parts = append(parts, info.GitCommit)
	}
	if info.Modified {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String returns the full human-readable version line.
func String() string {
	info := Get()
	s := Short()
	if info.BuildTime != "" {
		s = fmt.Sprintf("%s (built %s)", s, info.BuildTime)
	}
	if info.GoVersion != "" {
		s = fmt.Sprintf("%s %s", s, info.GoVersion)
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
