// Package version holds build metadata injected at link time.
package version

var (
	// Version is the release version, overridden with -ldflags.
	Version = "dev"
	// GitCommit is the source revision the binary was built from.
	GitCommit = "unknown"
)
