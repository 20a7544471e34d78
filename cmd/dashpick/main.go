package main

import (
	"fmt"
	"os"

	"github.com/ruminaider/dashpick/internal/paths"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dashpick",
	Short: "Pick cluster instances and time ranges for dashboard queries",
	Long:  "dashpick selects TiDB cluster instances from a topology file and resolves the time range a dashboard query should cover.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: interactive select
		return selectCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dashpick %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", paths.ConfigFile(), "Path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(timerangeCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
