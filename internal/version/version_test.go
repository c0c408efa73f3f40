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

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	tests := map[string]string{
		"1.2.3":                "1.2.3",
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"snapshot":             "snapshot",
	}
	for in, want := range tests {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored() with %q = %q, want %q", in, got, want)
		}
	}
}
