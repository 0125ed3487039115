package app

import "fmt"

// Build metadata, injected with -ldflags
// "-X github.com/meadowmath/meadowmath-backend/internal/app.Version=…".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build metadata for startup logs and /health.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
