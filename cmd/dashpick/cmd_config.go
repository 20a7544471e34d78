package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/dashpick/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dashpick configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file",
	Long:  "Write ~/.dashpick/config.yaml. On a terminal the values are prompted for; otherwise the defaults are written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}

		cfg := config.Default()
		if term.IsTerminal(os.Stdin.Fd()) {
			if err := promptConfig(&cfg); err != nil {
				return err
			}
		}
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func promptConfig(cfg *config.Config) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Select every instance by default?").
				Description("Applies on first load when no value is given").
				Value(&cfg.DefaultSelectAll),
			huh.NewConfirm().
				Title("Include TiFlash instances?").
				Value(&cfg.IncludeTiFlash),
			huh.NewInput().
				Title("Topology file").
				Description("Leave empty for ~/.dashpick/topology.yaml").
				Value(&cfg.TopologyFile).
				Validate(validateTopologyFile),
		),
	).Run()
}

func validateTopologyFile(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
