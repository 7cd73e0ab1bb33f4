// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/sxdsl/tthc-chatbot-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/sxdsl/tthc-chatbot-go/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/sxdsl/tthc-chatbot-go/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Release is "version (commit)" when both are set, otherwise whichever is
// present. Used as the Sentry release tag.
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + " (" + Commit + ")"
	case Version != "":
		return Version
	default:
		return Commit
	}
}
