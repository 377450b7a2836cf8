// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Chanscout is the canonical application identifier used for filesystem paths and CLI branding.
	Chanscout = "chanscout"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// UserAgent is the default browser identity presented to the target site and attached to resolved streams.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Repository is the GitHub repository used for release checks.
	Repository = "chanscout/chanscout"
)

// Build metadata, injected at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
