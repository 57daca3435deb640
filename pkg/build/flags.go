// SPDX-License-Identifier: MIT
//
// Package build holds build metadata injected at link time, for example:
//
//	go build -ldflags "-X firfilt/pkg/build.buildName=firfilt \
//	  -X firfilt/pkg/build.buildVersion=0.1.0 \
//	  -X firfilt/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X firfilt/pkg/build.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Development builds carry the defaults below.
package build

import "fmt"

// Info describes the running binary.
type Info struct {
	Name        string
	Description string
	Version     string
	Commit      string
	Time        string
}

// String formats the version line printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Time)
}

// Populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
)

var info = defaultInfo()

func defaultInfo() Info {
	return Info{
		Name:        "firfilt",
		Description: "Design and apply Fourier-series FIR filters",
		Version:     "dev",
		Commit:      "unknown",
		Time:        "unknown",
	}
}

// Initialize copies the ldflags variables into the build information.
// It returns an error naming the first missing flag and leaves the
// development defaults in place in that case.
func Initialize() error {
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	info.Name = buildName
	info.Time = buildTime
	info.Commit = buildCommit
	info.Version = buildVersion

	return nil
}

// Get returns the current build information.
func Get() Info {
	return info
}
