// Package build holds version information injected at link time:
//
//	go build -ldflags "-X github.com/amoutonbrady/changemoji/internal/build.Version=v1.2.0"
package build

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}
