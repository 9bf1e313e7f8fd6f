// Package version reports the server version sent in serverInfo
package version

import (
	"runtime/debug"
)

// Version is set at build time with
// -ldflags "-X bennypowers.dev/padls/internal/version.Version=v0.1.0"
var Version = "dev"

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// Get returns the linked version, else the module version from the build
// info, else the VCS revision with a -dirty suffix for modified trees
func Get() string {
	if Version != "dev" {
		return Version
	}

	info, ok := readBuildInfo()
	if !ok {
		return Version
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision == "" {
		return Version
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := Version + "+" + revision
	if modified == "true" {
		v += "-dirty"
	}
	return v
}
