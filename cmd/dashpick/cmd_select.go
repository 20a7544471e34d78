package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/dashpick/cmd/dashpick/tui"
	"github.com/ruminaider/dashpick/internal/config"
	"github.com/ruminaider/dashpick/internal/selector"
	"github.com/ruminaider/dashpick/internal/timerange"
	"github.com/ruminaider/dashpick/internal/topology"
	"github.com/spf13/cobra"
)

var (
	selectValue      string
	selectDefaultAll bool
	selectTiFlash    bool
	selectTopology   string
	selectRange      string
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select cluster instances",
	Long: `Select cluster instances from the topology file and print the chosen
addresses, comma separated. When stdin is not a terminal the initial value is
reconciled against the topology and printed without prompting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applySelectFlags(cmd, &cfg)

		tr := cfg.Range()
		if selectRange != "" {
			if tr, err = timerange.Parse(selectRange); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		loader := topology.NewLoader(topology.FileSources(topologyPath(selectTopology, cfg)))
		sel := newSelector(cfg, nil)
		sel.Mount(splitKeys(selectValue))
		defer sel.Unmount()

		// TTY guard: reconcile and print when stdin is not a terminal
		if !term.IsTerminal(os.Stdin.Fd()) {
			return selectOnce(ctx, sel, loader, cmd.OutOrStdout(), cmd.ErrOrStderr())
		}

		model := tui.NewPicker(sel, "Select instances", tr, tui.LoadTopology(ctx, loader))
		finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		picker := finalModel.(tui.Picker)
		if picker.Cancelled {
			return nil
		}
		reportSourceErrors(cmd.ErrOrStderr(), loader)
		printValue(cmd.OutOrStdout(), cmd.ErrOrStderr(), sel)
		return nil
	},
}

// applySelectFlags overrides config values with any flags set explicitly.
func applySelectFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("default-all") {
		cfg.DefaultSelectAll = selectDefaultAll
	}
	if cmd.Flags().Changed("tiflash") {
		cfg.IncludeTiFlash = selectTiFlash
	}
}

// selectOnce loads the topology once, reconciles the mounted value against
// it and prints the result.
func selectOnce(ctx context.Context, sel *selector.Selector, l *topology.Loader, out, errOut io.Writer) error {
	snap, loading, err := l.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("loading topology: %w", err)
	}
	reportSourceErrors(errOut, l)
	if err := sel.Apply(snap, loading); err != nil {
		return err
	}
	printValue(out, errOut, sel)
	return nil
}

// printValue writes the value to out and its summary to errOut so that out
// stays machine readable.
func printValue(out, errOut io.Writer, sel *selector.Selector) {
	fmt.Fprintln(out, strings.Join(sel.Value(), ","))
	if s := sel.Summary(); s != "" {
		fmt.Fprintf(errOut, "selected: %s\n", s)
	}
}

func init() {
	selectCmd.Flags().StringVar(&selectValue, "value", "", "Initially selected instance addresses, comma separated")
	selectCmd.Flags().BoolVar(&selectDefaultAll, "default-all", false, "Select every instance on first load when no value is given")
	selectCmd.Flags().BoolVar(&selectTiFlash, "tiflash", false, "Include TiFlash instances")
	selectCmd.Flags().StringVar(&selectTopology, "topology", "", "Topology file (default: config or ~/.dashpick/topology.yaml)")
	selectCmd.Flags().StringVar(&selectRange, "range", "", "Time range shown in the status bar, e.g. recent:1h or 1700000000..1700003600")
}
