// Package buildinfo carries identifiers injected with
// -ldflags "-X plasmafx/internal/buildinfo.Version=...".
package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// String returns the full build line logged at startup.
func String() string {
	return "plasmafx " + Version + " commit=" + Commit + " date=" + Date
}
