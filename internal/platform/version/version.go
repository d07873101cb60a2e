// Package version exposes the build stamp baked in at link time.
package version

import "runtime"

// Overridden via -ldflags "-X armhub/internal/platform/version.Version=..."
// and friends; a bare `go build` serves the zero values below.
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)

// Info is the payload served by GET /version.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Service:   "armhub",
		Version:   Version,
		Commit:    Commit,
		BuiltAt:   BuiltAt,
		GoVersion: runtime.Version(),
	}
}
