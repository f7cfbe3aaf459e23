package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
// -X github.com/example/tasktracker/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "tasktracker <version> (commit: <short>, built: <time>)".
// Without ldflags the commit falls back to the VCS revision stamped by the Go toolchain.
func String() string {
	return fmt.Sprintf("tasktracker %s (commit: %s, built: %s)", Version, shortCommit(resolveCommit()), BuildTime)
}

func resolveCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
