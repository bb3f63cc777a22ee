// Package versions provides build and version information for the quizzed binary.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Masterminds/semver/v3"
)

const unknownStr = "unknown"

// Version information set by build using -ldflags
var (
	Version   = "dev"
	Commit    = unknownStr
	BuildDate = unknownStr
)

// VersionInfo represents the version information
type VersionInfo struct {
	Version    string `json:"version" yaml:"version"`
	Prerelease bool   `json:"prerelease" yaml:"prerelease"`
	Commit     string `json:"commit" yaml:"commit"`
	BuildDate  string `json:"build_date" yaml:"build_date"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// GetVersionInfo returns the version information of the running binary
func GetVersionInfo() VersionInfo {
	return versionInfo(Version, Commit, BuildDate, readBuildSettings())
}

func readBuildSettings() map[string]string {
	settings := make(map[string]string)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
	}
	return settings
}

func versionInfo(version, commit, buildDate string, settings map[string]string) VersionInfo {
	if commit == unknownStr && settings["vcs.revision"] != "" {
		commit = settings["vcs.revision"]
	}
	if buildDate == unknownStr && settings["vcs.time"] != "" {
		buildDate = settings["vcs.time"]
	}
	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if v, err := semver.NewVersion(version); err == nil {
		info.Version = "v" + v.String()
		info.Prerelease = v.Prerelease() != ""
		return info
	}

	// Development builds are labelled with the commit they came from.
	if commit != unknownStr {
		info.Version = fmt.Sprintf("build-%.8s", commit)
	}
	info.Prerelease = true
	return info
}
