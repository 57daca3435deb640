// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origInfo    Info
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origInfo = info

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	info = origInfo

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantErrMsg  string
	}{
		{"Missing BuildName", "", "2025-04-13", "abcdef123", "v1.0.0", "BuildName is required"},
		{"Missing BuildTime", "firfilt", "", "abcdef123", "v1.0.0", "BuildTime is required"},
		{"Missing BuildCommit", "firfilt", "2025-04-13", "", "v1.0.0", "BuildCommit is required"},
		{"Missing BuildVersion", "firfilt", "2025-04-13", "abcdef123", "", "BuildVersion is required"},
		{"Success Case", "firfilt", "2025-04-13", "abcdef123", "v1.0.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info = defaultInfo()

			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()

			if tt.wantErrMsg != "" {
				if err == nil || err.Error() != tt.wantErrMsg {
					t.Errorf("Initialize() error = %v, want %v", err, tt.wantErrMsg)
				}
				if info != defaultInfo() {
					t.Errorf("failed Initialize() changed info to %+v", info)
				}
				return
			}

			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}

			want := Info{
				Name:        tt.buildName,
				Description: defaultInfo().Description,
				Version:     tt.buildVer,
				Commit:      tt.buildCommit,
				Time:        tt.buildTime,
			}
			if got := Get(); got != want {
				t.Errorf("Get() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.2.3", Commit: "abc123", Time: "2025-04-13"}
	if got, want := i.String(), "v1.2.3 (commit abc123, built 2025-04-13)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
