// Package misc keeps program identity: name, version and source revision.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X cssq/misc.version=... -X cssq/misc.gitHash=..." by
// release builds.
var (
	version = ""
	gitHash = ""
)

const appName = "cssq"

// GetAppName returns program name, executable name is used when it was
// renamed.
func GetAppName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return appName
	}
	base := filepath.Base(os.Args[0])
	if strings.Contains(base, ".test") || strings.HasPrefix(base, "__debug_bin") {
		// go test and debugger binaries
		return appName
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return appName
	}
	return name
}

// GetVersion returns program version stamped at build time, falling back to
// module version recorded by the go tool.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetGitHash returns source revision stamped at build time or recorded by the
// go tool from VCS information.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		var rev, dirty string
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					dirty = "-dirty"
				}
			}
		}
		if rev != "" {
			return rev + dirty
		}
	}
	return "unknown"
}
