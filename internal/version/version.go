// Package version exposes the engine's build identity: the ldflags-stamped
// version plus whatever the Go toolchain recorded about the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Set at build time via -ldflags "-X ...". A binary built without them falls
// back to the VCS metadata the toolchain embeds.
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo describes one build of the engine.
type BuildInfo struct {
	Version   string    `json:"version"`
	BuildDate string    `json:"build_date"`
	GitCommit string    `json:"git_commit"`
	GoVersion string    `json:"go_version"`
	BuildTime time.Time `json:"build_time"`
	Dirty     bool      `json:"dirty"`
	Main      Module    `json:"main"`
	Deps      []Module  `json:"deps"`
}

// Module identifies a Go module by path and version.
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Sum     string `json:"sum"`
}

// Info merges the ldflags variables with the runtime's record of the binary.
// When the ldflags were never stamped, the VCS metadata embedded by the Go
// toolchain fills in the commit, build date, and dirty flag instead.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		Dirty:     strings.Contains(GitCommit, "-dirty"),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Main = moduleOf(bi.Main)
		info.Deps = make([]Module, 0, len(bi.Deps))
		for _, dep := range bi.Deps {
			info.Deps = append(info.Deps, moduleOf(*dep))
		}
		if info.GitCommit == unknownValue {
			info.fillFromVCS(bi.Settings)
		}
	}

	if t, err := time.Parse(time.RFC3339, info.BuildDate); err == nil {
		info.BuildTime = t
	} else {
		info.BuildTime = time.Now()
	}
	return info
}

func moduleOf(m debug.Module) Module {
	return Module{Path: m.Path, Version: m.Version, Sum: m.Sum}
}

// fillFromVCS reads the toolchain's vcs.* build settings into fields the
// ldflags left unset.
func (b *BuildInfo) fillFromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			b.GitCommit = s.Value
		case "vcs.time":
			if b.BuildDate == unknownValue {
				b.BuildDate = s.Value
			}
		case "vcs.modified":
			b.Dirty = b.Dirty || s.Value == "true"
		}
	}
}

// Short returns the version with an abbreviated commit hash when one is
// known, e.g. "1.2.0 (ab12cd3)".
func Short() string {
	if c := shortCommit(GitCommit); c != "" {
		return fmt.Sprintf("%s (%s)", Version, c)
	}
	return Version
}

// shortCommit abbreviates a commit hash for display, dropping any -dirty
// marker. Unknown or empty hashes come back empty.
func shortCommit(hash string) string {
	if hash == unknownValue || hash == "" {
		return ""
	}
	hash = strings.TrimSuffix(hash, "-dirty")
	if len(hash) > commitHashLength {
		hash = hash[:commitHashLength]
	}
	return hash
}

// String renders a multi-line version report. Fields the build never
// recorded are left out.
func (b BuildInfo) String() string {
	version := b.Version
	if b.Dirty {
		version += " (dirty)"
	}

	lines := []struct {
		label, value string
	}{
		{"Version", version},
		{"Build Date", skipUnknown(b.BuildDate)},
		{"Git Commit", shortCommit(b.GitCommit)},
		{"Go Version", b.GoVersion},
		{"Module", b.Main.Path},
	}

	var sb strings.Builder
	sb.WriteString("tabular engine\n")
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", l.label, l.value)
	}
	return sb.String()
}

func skipUnknown(s string) string {
	if s == unknownValue {
		return ""
	}
	return s
}

// UserAgent identifies the engine in HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("chartkit-tabular/%s", Version)
}

// IsRelease reports whether this is a tagged release build rather than a dev
// or pre-release one.
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}
