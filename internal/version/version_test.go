package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_Plain(t *testing.T) {
	if got := Colored(false); got != Version {
		t.Errorf("Colored(false) = %q, want %q", got, Version)
	}
}

func TestColored_KeepsSuffix(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3-rc.1+build.7"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored(true) = %q, want ANSI escapes", got)
	}
	if !strings.HasSuffix(got, "-rc.1+build.7") {
		t.Errorf("Colored(true) = %q, lost the pre-release suffix", got)
	}
}

func TestColored_NonSemver(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	for _, v := range []string{"dev", "1.2", "nightly-2024"} {
		Version = v
		if got := Colored(true); got != v {
			t.Errorf("Colored(true) with %q = %q", v, got)
		}
	}
}
