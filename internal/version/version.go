// Package version holds build metadata, set via ldflags.
package version

var (
	Version   = "0.1.0"
	Commit    = "dev"
	BuildDate = "unknown"
)
