package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q", tt.in, got)
		}
	}
}

func TestCurrentAndShortCommit(t *testing.T) {
	origCommit := GitCommit
	t.Cleanup(func() { GitCommit = origCommit })

	GitCommit = "abc123def456"
	if ShortCommit() != "abc123d" {
		t.Fatalf("ShortCommit = %q", ShortCommit())
	}
	if Current().GitCommit != GitCommit {
		t.Fatal("Current does not reflect GitCommit")
	}
	GitCommit = "abc"
	if ShortCommit() != "abc" {
		t.Fatalf("ShortCommit = %q", ShortCommit())
	}
}
