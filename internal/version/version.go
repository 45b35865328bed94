// Package version reports how the mipow binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const bluetoothModule = "tinygo.org/x/bluetooth"

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/mipow/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/mipow/internal/version.Commit=abc123"
//
// Unset values come from the VCS stamp of the build, or "dev" with a
// timestamp.
var (
	Version = ""
	Commit  = ""

	// Bluetooth is the version of the BLE stack linked in.
	Bluetooth = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		populateFromBuildInfo(info)
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if Bluetooth == "" {
		Bluetooth = "unknown"
	}
}

func populateFromBuildInfo(info *debug.BuildInfo) {
	var revision, modified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		Commit = revision[:min(7, len(revision))]
		if modified == "true" {
			Commit += "-dirty"
		}
	}

	// Build info carries no tags; date the dev build by its commit
	if Version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}

	if Bluetooth == "" {
		for _, dep := range info.Deps {
			if dep.Path == bluetoothModule {
				Bluetooth = dep.Version
				if dep.Replace != nil {
					Bluetooth = dep.Replace.Version
				}
			}
		}
	}
}

// Backend names the BLE transport compiled into this binary.
func Backend() string {
	if runtime.GOOS == "linux" {
		return "bluez"
	}
	return "none"
}

// Full returns the version with commit, Go toolchain, platform and BLE
// backend, e.g. "v1.2.3 (commit: abc1234, go1.24.10 linux/amd64, bluez, bluetooth v0.10.0)".
func Full() string {
	parts := []string{
		"commit: " + Commit,
		fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		Backend(),
		"bluetooth " + Bluetooth,
	}
	return fmt.Sprintf("%s (%s)", Version, strings.Join(parts, ", "))
}
