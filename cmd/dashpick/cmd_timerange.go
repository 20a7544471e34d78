package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/dashpick/internal/config"
	"github.com/ruminaider/dashpick/internal/timerange"
	"github.com/spf13/cobra"
)

var (
	timerangeNow  int64
	timerangeSave bool
)

// customRange is the pick option that switches to absolute start/end input.
const customRange int64 = -1

var timerangeCmd = &cobra.Command{
	Use:   "timerange",
	Short: "Resolve or pick a dashboard time range",
}

var timerangeResolveCmd = &cobra.Command{
	Use:   "resolve [range]",
	Short: "Print the unix start and end of a time range",
	Long: `Print the unix start and end seconds of a time range. The range is
either recent:<duration> (for example recent:30m) or <start>..<end> in unix
seconds. Without an argument the configured default range is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		now := timerangeNow
		if now == 0 {
			now = time.Now().Unix()
		}
		start, end, err := resolveRange(arg, cfg.Range(), now)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", start, end)
		return nil
	},
}

var timerangePickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a time range interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return errors.New("timerange pick needs a terminal; use 'dashpick timerange resolve' instead")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ed := timerange.NewEditor(cfg.Range(), nil)
		if err := promptTimeRange(ed); err != nil {
			return err
		}

		r := ed.Value()
		fmt.Fprintln(cmd.OutOrStdout(), timerange.String(r))
		fmt.Fprintln(cmd.ErrOrStderr(), timerange.Label(r))

		if timerangeSave {
			cfg.TimeRange = timerange.String(r)
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved default time range to %s\n", configPath)
		}
		return nil
	},
}

// resolveRange parses arg, falling back to fallback when arg is empty, and
// resolves it against now.
func resolveRange(arg string, fallback timerange.TimeRange, now int64) (int64, int64, error) {
	r := fallback
	if arg != "" {
		parsed, err := timerange.Parse(arg)
		if err != nil {
			return 0, 0, err
		}
		r = parsed
	}
	return timerange.Resolve(r, now)
}

// presetOptions lists every recent preset, then the custom entry.
func presetOptions() []huh.Option[int64] {
	options := make([]huh.Option[int64], 0, len(timerange.RecentPresets)+1)
	for _, secs := range timerange.RecentPresets {
		options = append(options, huh.NewOption(timerange.Label(timerange.Recent{Seconds: secs}), secs))
	}
	return append(options, huh.NewOption("Custom absolute range", customRange))
}

func promptTimeRange(ed *timerange.Editor) error {
	choice := customRange
	if r, ok := ed.Value().(timerange.Recent); ok {
		choice = r.Seconds
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Time range").
				Options(presetOptions()...).
				Value(&choice),
		),
	).Run()
	if err != nil {
		return err
	}
	if choice != customRange {
		ed.SelectRecent(choice)
		return nil
	}

	var startText, endText string
	if start, end, ok := ed.AbsolutePair(); ok {
		startText = strconv.FormatInt(start, 10)
		endText = strconv.FormatInt(end, 10)
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start (unix seconds)").
				Value(&startText).
				Validate(validateUnix),
			huh.NewInput().
				Title("End (unix seconds)").
				Value(&endText).
				Validate(validateUnix),
		),
	).Run()
	if err != nil {
		return err
	}
	start, _ := strconv.ParseInt(startText, 10, 64)
	end, _ := strconv.ParseInt(endText, 10, 64)
	return ed.PickAbsolute(start, end)
}

func validateUnix(s string) error {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.New("enter unix seconds")
	}
	return nil
}

func init() {
	timerangeResolveCmd.Flags().Int64Var(&timerangeNow, "now", 0, "Resolve relative to this unix time instead of the current time")
	timerangePickCmd.Flags().BoolVar(&timerangeSave, "save", false, "Save the picked range as the default in the config file")

	timerangeCmd.AddCommand(timerangeResolveCmd)
	timerangeCmd.AddCommand(timerangePickCmd)
}
