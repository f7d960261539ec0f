// Package version provides build and version information for hypcheck. VCS metadata is read from the build info
// embedded by the Go toolchain, unless it was set explicitly through ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// These variables can be set via ldflags at build time, e.g.
// -ldflags "-X github.com/crytic/hypcheck/version.GitCommit=<sha>"
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// GitCommit is the git commit hash.
	GitCommit = ""
	// GitCommitTime is the RFC 3339 timestamp of the git commit.
	GitCommitTime = ""
	// GitTreeDirty is "true" if the working tree had uncommitted changes.
	GitTreeDirty = ""
)

// shortCommitLength is the number of commit hash characters shown in version strings.
const shortCommitLength = 7

// Info contains the full version information for the build.
type Info struct {
	Version       string
	GitCommit     string
	GitCommitTime string
	GitTreeDirty  bool
	GoVersion     string
}

// buildSettings reads the VCS settings embedded in the binary once.
var buildSettings = sync.OnceValue(func() map[string]string {
	settings := make(map[string]string)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			settings[setting.Key] = setting.Value
		}
	}
	return settings
})

// GetInfo returns the version information of the running binary. Values set through ldflags take precedence over
// the embedded VCS settings.
func GetInfo() Info {
	settings := buildSettings()
	return Info{
		Version:       Version,
		GitCommit:     firstNonEmpty(GitCommit, settings["vcs.revision"]),
		GitCommitTime: firstNonEmpty(GitCommitTime, settings["vcs.time"]),
		GitTreeDirty:  firstNonEmpty(GitTreeDirty, settings["vcs.modified"]) == "true",
		GoVersion:     runtime.Version(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// ShortCommit returns the abbreviated git commit hash.
func (i Info) ShortCommit() string {
	return i.GitCommit[:min(len(i.GitCommit), shortCommitLength)]
}

// commit returns the abbreviated commit hash, suffixed with -dirty for modified trees.
func (i Info) commit() string {
	if i.GitTreeDirty {
		return i.ShortCommit() + "-dirty"
	}
	return i.ShortCommit()
}

// FormattedTime returns the commit time in a human-readable format.
func (i Info) FormattedTime() string {
	if i.GitCommitTime == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, i.GitCommitTime)
	if err != nil {
		return i.GitCommitTime
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

// String returns the multi-line output of the version command.
func (i Info) String() string {
	lines := []string{fmt.Sprintf("hypcheck version %s", i.Version)}
	if i.GitCommit != "" {
		lines = append(lines, fmt.Sprintf("  Commit:     %s", i.commit()))
	}
	if i.GitCommitTime != "" {
		lines = append(lines, fmt.Sprintf("  Built:      %s", i.FormattedTime()))
	}
	lines = append(lines, fmt.Sprintf("  Go version: %s", i.GoVersion))
	return strings.Join(lines, "\n") + "\n"
}

// Short returns a single-line version string, used for --version and in reports.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return i.Version + "+" + i.commit()
}
