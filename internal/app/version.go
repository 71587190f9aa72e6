// Package app wires configuration, logging and the run modes of the polymul
// command together.
package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"slices"
	"text/tabwriter"
)

// Set at link time:
//
//	go build -ldflags="-X github.com/agbru/polymul/internal/app.Version=v0.3.0" ./cmd/polymul
//
// Commit and BuildDate left at "unknown" are filled from the VCS stamp the
// toolchain embeds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// VersionData is what --version reports.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

var versionFlags = []string{"--version", "-version", "-V"}

// HasVersionFlag reports whether args ask for the version anywhere, so
// "polymul -server --version" prints it too.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool { return slices.Contains(versionFlags, a) })
}

// GetVersionInfo collects the build and runtime details.
func GetVersionInfo() VersionData {
	v := VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildSettings(&v, bi.Settings)
	}
	return v
}

// applyBuildSettings fills Commit and BuildDate from VCS settings when the
// linker left them unknown. A modified work tree marks the commit dirty.
func applyBuildSettings(v *VersionData, settings []debug.BuildSetting) {
	if v.Commit != "unknown" && v.BuildDate != "unknown" {
		return
	}
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}
	if rev := vcs["vcs.revision"]; rev != "" && v.Commit == "unknown" {
		v.Commit = rev[:min(len(rev), 12)]
		if vcs["vcs.modified"] == "true" {
			v.Commit += "-dirty"
		}
	}
	if at := vcs["vcs.time"]; at != "" && v.BuildDate == "unknown" {
		v.BuildDate = at
	}
}

// PrintVersion writes the version block to out.
func PrintVersion(out io.Writer) {
	v := GetVersionInfo()
	fmt.Fprintf(out, "polymul %s\n", v.Version)
	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "  Commit:\t%s\n", v.Commit)
	fmt.Fprintf(tw, "  Built:\t%s\n", v.BuildDate)
	fmt.Fprintf(tw, "  Go version:\t%s\n", v.GoVersion)
	fmt.Fprintf(tw, "  OS/Arch:\t%s/%s\n", v.OS, v.Arch)
	_ = tw.Flush()
}
