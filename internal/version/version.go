// Package version reports the build the binary was produced from.
//
//nolint:revive
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/startupsetu/setu/internal/version.Version=...".
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
}

var readVCS = sync.OnceValues(func() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	var rev, at string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return rev, at
})

// Get resolves build metadata, falling back to the VCS stamp embedded by the go tool.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    CommitHash,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "" {
		info.Commit, info.BuildTime = readVCS()
	}
	return info
}

// ShortCommit is the first 7 characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

func (i Info) String() string {
	if c := i.ShortCommit(); c != "" {
		return fmt.Sprintf("%s (%s)", i.Version, c)
	}
	return i.Version
}

// GetInfo returns "version (short commit)".
func GetInfo() string {
	return Get().String()
}
