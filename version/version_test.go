package version

import (
	"runtime/debug"
	"testing"
)

func withVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name      string
		version   string
		commit    string
		wantShort string
		release   bool
	}{
		{"dev from vcs", "dev", "", "dev-0123456-dirty", false},
		{"ldflags win", "1.2.0", "abcdef0", "1.2.0-abcdef0-dirty", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withVars(t, tc.version, tc.commit, "")
			info := fromBuildInfo(bi, true)
			if got := info.Short(); got != tc.wantShort {
				t.Errorf("got %q, want %q", got, tc.wantShort)
			}
			if info.IsRelease != tc.release {
				t.Errorf("got release %v, want %v", info.IsRelease, tc.release)
			}
			if info.GoVersion != "go1.26.0" || info.BuildTime != "2026-01-02T03:04:05Z" {
				t.Errorf("unexpected info %+v", info)
			}
		})
	}
}

func TestFromBuildInfo_Unavailable(t *testing.T) {
	withVars(t, "dev", "", "")
	info := fromBuildInfo(nil, false)
	if info.Short() != "dev" || info.GoVersion != "" {
		t.Errorf("unexpected info %+v", info)
	}
}
