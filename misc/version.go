// Package misc keeps build time information.
package misc

// Set with -ldflags "-X apack/misc.version=... -X apack/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "apack"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
