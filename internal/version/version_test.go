package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestPopulateFromBuildInfo(t *testing.T) {
	saved := [3]string{Version, Commit, Bluetooth}
	t.Cleanup(func() { Version, Commit, Bluetooth = saved[0], saved[1], saved[2] })
	Version, Commit, Bluetooth = "", "", ""

	populateFromBuildInfo(&debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2024-03-01T06:59:00Z"},
		},
		Deps: []*debug.Module{
			{Path: "go.uber.org/zap", Version: "v1.27.1"},
			{Path: bluetoothModule, Version: "v0.10.0"},
		},
	})

	if Commit != "0123456-dirty" {
		t.Errorf("Commit = %q, want 0123456-dirty", Commit)
	}
	if Version != "dev-20240301" {
		t.Errorf("Version = %q, want dev-20240301", Version)
	}
	if Bluetooth != "v0.10.0" {
		t.Errorf("Bluetooth = %q, want v0.10.0", Bluetooth)
	}
}

func TestPopulateKeepsLinkerValues(t *testing.T) {
	saved := [3]string{Version, Commit, Bluetooth}
	t.Cleanup(func() { Version, Commit, Bluetooth = saved[0], saved[1], saved[2] })
	Version, Commit, Bluetooth = "v1.2.3", "abc1234", ""

	populateFromBuildInfo(&debug.BuildInfo{
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fffffff"}},
	})

	if Version != "v1.2.3" || Commit != "abc1234" {
		t.Errorf("got %s/%s, want linker values kept", Version, Commit)
	}
}

func TestFull(t *testing.T) {
	got := Full()
	for _, want := range []string{Version, "commit: " + Commit, runtime.GOOS + "/" + runtime.GOARCH, Backend()} {
		if !strings.Contains(got, want) {
			t.Errorf("Full() = %q, missing %q", got, want)
		}
	}
}
