// Package version exposes build metadata injected via -ldflags.
package version

import "fmt"

// Build information. Populated at build-time via:
//
//	-ldflags "-X github.com/rshade/catalogview/pkg/version.version=v1.2.3 ..."
//
//nolint:gochecknoglobals // Overwritten by the linker.
var (
	version   = "0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version of the binary.
func GetVersion() string {
	return version
}

// GetGitCommit returns the git commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// UserAgent returns the User-Agent string sent to the catalog API.
func UserAgent() string {
	return fmt.Sprintf("catalogview/%s", version)
}
