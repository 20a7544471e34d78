package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ruminaider/dashpick/internal/catalog"
	"github.com/ruminaider/dashpick/internal/config"
	"github.com/ruminaider/dashpick/internal/filter"
	"github.com/ruminaider/dashpick/internal/topology"
	"github.com/spf13/cobra"
)

var (
	listFilter   string
	listTopology string
	listTiFlash  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cluster instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tiflash") {
			cfg.IncludeTiFlash = listTiFlash
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		loader := topology.NewLoader(topology.FileSources(topologyPath(listTopology, cfg)))
		return listInstances(ctx, loader, cfg, listFilter, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func listInstances(ctx context.Context, l *topology.Loader, cfg config.Config, keyword string, out, errOut io.Writer) error {
	snap, _, err := l.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("loading topology: %w", err)
	}
	reportSourceErrors(errOut, l)

	c, err := catalog.Rebuild(topology.BuildInstanceTable(snap, cfg.IncludeTiFlash))
	if err != nil {
		return err
	}
	items := filter.Filter(c, keyword, matcherFor(cfg))
	if len(items) == 0 {
		fmt.Fprintln(out, "No instances.")
		return nil
	}
	for _, it := range items {
		comp := topology.Component(it.Attr(topology.AttrComponent))
		fmt.Fprintf(out, "%-8s %-28s %s\n", comp.DisplayName(), it.Key, it.Attr(topology.AttrStatus))
	}
	return nil
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only show instances matching this keyword")
	listCmd.Flags().StringVar(&listTopology, "topology", "", "Topology file (default: config or ~/.dashpick/topology.yaml)")
	listCmd.Flags().BoolVar(&listTiFlash, "tiflash", false, "Include TiFlash instances")
}
