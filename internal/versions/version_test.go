package versions

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		version        string
		commit         string
		buildDate      string
		settings       map[string]string
		wantVersion    string
		wantPrerelease bool
		wantCommit     string
		wantBuildDate  string
	}{
		{
			name:          "release build is normalized",
			version:       "1.4.0",
			commit:        "abcdef1234567890",
			buildDate:     "2026-03-01T10:00:00Z",
			wantVersion:   "v1.4.0",
			wantCommit:    "abcdef1234567890",
			wantBuildDate: "2026-03-01 10:00:00 UTC",
		},
		{
			name:           "prerelease keeps its suffix",
			version:        "v2.0.0-rc.1",
			commit:         unknownStr,
			buildDate:      unknownStr,
			wantVersion:    "v2.0.0-rc.1",
			wantPrerelease: true,
			wantCommit:     unknownStr,
			wantBuildDate:  unknownStr,
		},
		{
			name:           "dev build uses vcs settings",
			version:        "dev",
			commit:         unknownStr,
			buildDate:      unknownStr,
			settings:       map[string]string{"vcs.revision": "0123456789abcdef", "vcs.time": "2026-01-02T03:04:05Z"},
			wantVersion:    "build-01234567",
			wantPrerelease: true,
			wantCommit:     "0123456789abcdef",
			wantBuildDate:  "2026-01-02 03:04:05 UTC",
		},
		{
			name:           "dev build without vcs data",
			version:        "dev",
			commit:         unknownStr,
			buildDate:      "not-a-date",
			wantVersion:    "dev",
			wantPrerelease: true,
			wantCommit:     unknownStr,
			wantBuildDate:  "not-a-date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := versionInfo(tt.version, tt.commit, tt.buildDate, tt.settings)

			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantPrerelease, info.Prerelease)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantBuildDate, info.BuildDate)
			assert.Equal(t, runtime.Version(), info.GoVersion)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()

	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
