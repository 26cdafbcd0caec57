package version

import "fmt"

var (
	// Version is the semantic version of the fxalert binary. Overridden at build time.
	Version = "dev"
	// Commit is the git commit hash. Overridden at build time.
	Commit = "unknown"
	// BuildDate is the build timestamp. Overridden at build time.
	BuildDate = "unknown"
)

// String renders the build stamp printed by `fxalert version`.
func String() string {
	return fmt.Sprintf("fxalert %s (commit %s, built %s)", Version, Commit, BuildDate)
}
