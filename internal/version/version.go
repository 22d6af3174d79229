// Package version reports build and runtime information for git2md.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// maxListedDeps bounds the dependency list in FullVersion
const maxListedDeps = 8

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string `json:"version"`
	SemVer    string `json:"semver"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`

	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	NumCPU    int    `json:"num_cpu"`

	// HeapAlloc is the live heap in bytes at the time of the call
	HeapAlloc uint64 `json:"heap_alloc"`

	Deps []Module `json:"deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo collects build information
func GetBuildInfo() BuildInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	info := BuildInfo{
		Version:   Version,
		SemVer:    strings.Split(Version, "-")[0],
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
		HeapAlloc: mem.HeapAlloc,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
			info.SemVer = strings.Split(bi.Main.Version, "-")[0]
		}
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" && info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		}
		for _, dep := range bi.Deps {
			info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
		}
	}

	return info
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "git2md %s\n", info.Version)
	b.WriteString("========================================\n\n")

	b.WriteString("Version Information:\n")
	fmt.Fprintf(&b, "  Version:      %s\n", info.Version)
	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Commit:       %s\n", info.GitCommit)
	b.WriteString("\n")

	b.WriteString("Runtime Information:\n")
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)
	fmt.Fprintf(&b, "  Heap:         %s\n", humanize.Bytes(info.HeapAlloc))

	if len(info.Deps) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range info.Deps[:min(maxListedDeps, len(info.Deps))] {
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
		if len(info.Deps) > maxListedDeps {
			fmt.Fprintf(&b, "  ... and %d more\n", len(info.Deps)-maxListedDeps)
		}
	}

	return b.String()
}
