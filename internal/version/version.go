package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/framebridge/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/framebridge/internal/version.Commit=abc123"
//
// Unset values are filled from the VCS stamp in the build info, or fall
// back to "dev" plus a timestamp.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	commit, version := fromSettings(info.Settings)
	if Commit == "" {
		Commit = commit
	}
	if Version == "" {
		Version = version
	}
}

// fromSettings derives a short commit ("abc1234", "abc1234-dirty") and a
// dated dev version from the vcs.* build settings
func fromSettings(settings []debug.BuildSetting) (commit, version string) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}
	if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		version = "dev-" + t.Format("20060102")
	}
	return commit, version
}

// Full returns the version and commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
