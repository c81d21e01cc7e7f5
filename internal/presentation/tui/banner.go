package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the scout banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___  ___ ___  _   _ _____", "#38bdf8"},
		{" / __|/ __/ _ \\| | | |_   _|", "#22d3ee"},
		{" \\__ \\ (_| (_) | |_| | | |", "#2dd4bf"},
		{" |___/\\___\\___/ \\___/  |_|", "#34d399"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
