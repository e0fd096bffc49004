package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CVR Guide banner in the INEC green palette.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	lines := []struct {
		text, color string
	}{
		{"   ______   ______     ______      _     __    ", "#15803d"},
		{"  / ___/ | / / __ \\   / ____/_  __(_)___/ /__  ", "#16a34a"},
		{" / /   | |/ / /_/ /  / / __/ / / / / __  / _ \\ ", "#22c55e"},
		{"/ /___ |   / _, _/  / /_/ / /_/ / / /_/ /  __/ ", "#4ade80"},
		{"\\____/ |__/_/ |_|   \\____/\\__,_/_/\\__,_/\\___/  ", "#86efac"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  INEC Continuous Voter Registration  v"+version).Faint())
	fmt.Fprintln(w)
}
