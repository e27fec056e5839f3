// Package version provides build and version information for logvet.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the current version of logvet.
// Set via ldflags at build time, or defaults to dev:
// -X github.com/Aman-CERP/logvet/pkg/version.Version=$(VERSION)
var Version = "dev"

// Build information set via ldflags at build time. Unset values fall back
// to the VCS stamp the go command embeds in the binary.
var (
	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"
)

const unset = "unknown"

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

var readBuildInfo = debug.ReadBuildInfo

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := readBuildInfo(); ok {
		info = withBuildStamp(info, bi)
	}
	return info
}

// withBuildStamp fills values ldflags left unset from the module version and
// vcs.* settings recorded by the go command.
func withBuildStamp(info BuildInfo, bi *debug.BuildInfo) BuildInfo {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unset {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.Date == unset {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String returns a formatted version string with all build info.
func String() string {
	info := GetInfo()
	commit := info.Commit
	if info.Modified {
		commit += "-modified"
	}
	return fmt.Sprintf("logvet %s (commit: %s, built: %s, go: %s)",
		info.Version, commit, info.Date, info.GoVersion)
}

// Short returns just the version string.
func Short() string {
	return GetInfo().Version
}
