package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"plain", "1.2.3", "", "", "codex 1.2.3\n"},
		{"with commit", "1.2.3", "abc123", "", "codex 1.2.3\ncommit: abc123\n"},
		{"full", "0.1.0-dev", "abc123", "2024-01-15", "codex 0.1.0-dev\ncommit: abc123\nbuilt:  2024-01-15\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
			if got := Info(false); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColoredKeepsSuffix(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })

	color.NoColor = true
	for _, v := range []string{"1.2.3", "0.1.0-dev", "1.2.3-rc.1+build.123", "weird"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
