package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ruminaider/dashpick/internal/topology"
)

// TopologyMsg carries the result of a topology refresh.
type TopologyMsg struct {
	Snapshot topology.Snapshot
	Loading  bool
	Err      error
}

// LoadTopology returns a tea.Cmd that refreshes every source of l. The
// command may be run again to re-fetch.
func LoadTopology(ctx context.Context, l *topology.Loader) tea.Cmd {
	return func() tea.Msg {
		snap, loading, err := l.Refresh(ctx)
		return TopologyMsg{Snapshot: snap, Loading: loading, Err: err}
	}
}
