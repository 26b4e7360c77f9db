// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/pustaka-digital/pustaka/internal/version.Version=v1.2.0"
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata for logs and `--version` output.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
