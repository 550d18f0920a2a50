// Package bobr provides the version and commit information for the bobr application.
package bobr

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
