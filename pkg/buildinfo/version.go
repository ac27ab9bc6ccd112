// Package buildinfo reports which courseflow build is running.
//
// Release builds stamp Version, Commit and Date through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/courseflow/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/courseflow/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/courseflow
//
// Unstamped builds (go install, go run) fall back to the module version and
// VCS settings the toolchain embeds, so /healthz, the build_info metric and
// --version stay meaningful either way.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Linker-stamped values. The defaults mark an unstamped build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved build description.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"` // Built from a dirty work tree
}

// Get resolves the build description. Stamped values win over embedded
// module and VCS data.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short returns the version and abbreviated commit, e.g. "v0.3.0 (1a2b3c4)".
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// Template returns the cobra version template for the current build.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} %s\nbuilt %s with %s\n", i.Short(), i.Date, i.GoVersion)
}
