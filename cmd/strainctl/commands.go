package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strain-dev/strain/internal/client"
	"github.com/strain-dev/strain/internal/tracker"
)

var (
	lowColor    = color.New(color.FgGreen)
	mediumColor = color.New(color.FgYellow)
	highColor   = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
)

func levelColor(l tracker.Level) *color.Color {
	switch l {
	case tracker.LevelHigh:
		return highColor
	case tracker.LevelMedium:
		return mediumColor
	default:
		return lowColor
	}
}

func newReportCmd(api func() *client.HTTPClient) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "report <low|medium|high>",
		Short: "Record a stress observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := tracker.ParseLevel(args[0])
			if err != nil {
				return err
			}
			entry, err := api().Report(level, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s at %s\n",
				levelColor(entry.Level).Sprint(entry.Level),
				entry.Timestamp.Format("15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Optional note attached to the entry")
	return cmd
}

func newStartCmd(api func() *client.HTTPClient) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a new coding session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := api().StartSession()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session started at %s\n",
				s.StartedAt.Format("15:04:05"))
			return nil
		},
	}
}

func newEndCmd(api func() *client.HTTPClient) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the active coding session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().EndSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session ended")
			return nil
		},
	}
}

func newStatusCmd(api func() *client.HTTPClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current stress level and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := api().Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stress level: %s\n", levelColor(s.Level).Sprint(s.Level))
			if s.CurrentSession != nil {
				fmt.Fprintf(out, "Active session: %d min (started %s)\n",
					s.CurrentDurationMinutes,
					s.CurrentSession.StartedAt.Format("15:04"))
			} else {
				fmt.Fprintln(out, dimColor.Sprint("No active session"))
			}
			fmt.Fprintf(out, "Coding time today: %d min\n", s.TodayTotalMinutes)
			return nil
		},
	}
}

func newStatsCmd(api func() *client.HTTPClient) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completed-session statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := api().Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed sessions: %d\n", s.Total)
			fmt.Fprintf(out, "Average length:     %d min\n", s.AverageMinutes)
			fmt.Fprintf(out, "Longest session:    %d min\n", s.LongestMinutes)
			return nil
		},
	}
}

func newTodayCmd(api func() *client.HTTPClient) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's sessions and entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := api().TodaysSessions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, dimColor.Sprint("No sessions today"))
				return nil
			}
			for _, s := range sessions {
				label := fmt.Sprintf("%d min", s.DurationMinutes)
				if s.Active {
					label = "active"
				}
				fmt.Fprintf(out, "Session %s (%s)\n",
					s.StartedAt.Format("15:04"), label)
				for _, e := range s.Entries {
					line := fmt.Sprintf("  %s  %s",
						e.Timestamp.Format("15:04"),
						levelColor(e.Level).Sprint(e.Level))
					if e.Note != "" {
						line += dimColor.Sprintf("  %s", e.Note)
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}

func newClearCmd(api func() *client.HTTPClient) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard all tracked history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			if err := api().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing all history")
	return cmd
}
