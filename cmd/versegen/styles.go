package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"versegen/internal/commentary"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6B7280")
	danger  = lipgloss.Color("#E53935")
	warning = lipgloss.Color("#FFC107")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	keyStyle   = lipgloss.NewStyle().Bold(true).Width(12)
	dimStyle   = lipgloss.NewStyle().Foreground(muted)
	errStyle   = lipgloss.NewStyle().Foreground(danger)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// printSummary renders the end-of-pass counters.
func printSummary(w io.Writer, s commentary.Stats) {
	row := func(label string, n int, style lipgloss.Style) string {
		return keyStyle.Render(label) + style.Render(fmt.Sprint(n))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Generation summary"),
		dimStyle.Render("run "+s.RunID),
		"",
		row("verses", s.Total, lipgloss.NewStyle()),
		row("inserted", s.Inserted, titleStyle),
		row("updated", s.Updated, titleStyle),
		row("skipped", s.Skipped, dimStyle),
		row("dry run", s.DryRun, dimStyle),
		row("failed", s.Failed, errStyle),
		keyStyle.Render("elapsed")+s.Elapsed.Round(time.Millisecond).String(),
	)
	fmt.Fprintln(w, boxStyle.Render(body))
}
