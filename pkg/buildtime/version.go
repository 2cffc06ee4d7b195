package buildtime

// set with -ldflags "-X github.com/opst/chronodemica/pkg/buildtime.version=..."
var version = "dev"
var revision = "unknown"

// version string when this chronodemica has been built.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
