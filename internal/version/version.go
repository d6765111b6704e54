// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String formats the version with whatever build metadata is known.
func String() string {
	s := "v" + Version
	if GitCommit != "unknown" && GitCommit != "" {
		commit := GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		s += fmt.Sprintf(" (%s)", commit)
	}
	if BuildTime != "unknown" && BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}
