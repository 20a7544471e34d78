package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StatusBar renders the bottom row with the selection count, the collapsed
// value and the active time range.
type StatusBar struct {
	selected  int
	total     int
	summary   string
	timeLabel string
	width     int
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// Update refreshes the counts, summary and time range label.
func (s *StatusBar) Update(selected, total int, summary, timeLabel string) {
	s.selected = selected
	s.total = total
	s.summary = summary
	s.timeLabel = timeLabel
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := fmt.Sprintf("%d/%d selected", s.selected, s.total)
	if s.summary != "" {
		left += " · " + s.summary
	}
	if s.timeLabel != "" {
		left += " · " + s.timeLabel
	}

	shortcuts := []string{
		StatusBarKeyStyle.Render("Space") + ": toggle",
		StatusBarKeyStyle.Render("Ctrl+A") + ": all",
		StatusBarKeyStyle.Render("Ctrl+N") + ": none",
		StatusBarKeyStyle.Render("Enter") + ": done",
	}
	right := strings.Join(shortcuts, " · ")

	leftWidth := ansi.StringWidth(left)
	rightWidth := ansi.StringWidth(right)
	available := s.width - 2 // StatusBarStyle padding
	gap := available - leftWidth - rightWidth
	if gap < 1 {
		gap = 1
	}

	content := left + strings.Repeat(" ", gap) + right
	if s.width > 0 {
		return StatusBarStyle.Width(s.width).Render(content)
	}
	return StatusBarStyle.Render(content)
}
