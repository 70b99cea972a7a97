package app

import "fmt"

// Build information populated via -ldflags at build time by CI.
var (
	// BuildVersion is the semantic version of the built binaries.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit  = "unknown"
)

// VersionString is printed by the -version flag of every tool.
func VersionString(tool string) string {
	return fmt.Sprintf("%s %s (%s)", tool, BuildVersion, BuildCommit)
}
