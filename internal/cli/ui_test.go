package cli

import (
	"strings"
	"testing"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 frames"},
		{1, "1 frame"},
		{7, "7 frames"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "frame"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrintStats(t *testing.T) {
	_, status := isolate(t)

	printStats(1, 4, true)
	got := plain(status.String())
	for _, want := range []string{"1 interpretation", "4 frames", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("printStats output %q missing %q", got, want)
		}
	}
}
