// Package buildinfo exposes version metadata stamped at link time:
//
//	go build -ldflags "-X github.com/gilby125/hotel-availability/pkg/buildinfo.Version=v1.2.3 \
//	  -X github.com/gilby125/hotel-availability/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/gilby125/hotel-availability/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the build metadata keyed for JSON output.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}
}

// String formats the metadata on one line for CLI output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
