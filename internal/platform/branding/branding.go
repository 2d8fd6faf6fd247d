// Package branding holds the product name and version reported to MCP
// clients and tracing backends.
package branding

import "strings"

// AppName is the product display name.
const AppName = "Stakes.Space"

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/louisbranch/stakes.space/internal/platform/branding.Version=...".
var Version = "0.1.0"

// ComponentName returns the display name of one binary, e.g. "Stakes.Space MCP".
func ComponentName(component string) string {
	component = strings.TrimSpace(component)
	if component == "" {
		return AppName
	}
	return AppName + " " + component
}
