package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trainlog/internal/analysis"
	"trainlog/internal/service"
)

func reportWindow(days int) (time.Time, time.Time) {
	to := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	return to.AddDate(0, 0, -days), to
}

func newActivitiesCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List imported activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openApp()
			if err != nil {
				return err
			}
			defer db.Close()

			from, to := reportWindow(days)
			activities, err := db.ListActivities(from, to)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(activities))
			for i := range activities {
				a := &activities[i]
				trimp := "-"
				if a.TRIMP != nil {
					trimp = fmt.Sprintf("%d", *a.TRIMP)
				}
				rows = append(rows, []string{
					a.StartTime.Format("2006-01-02 15:04"),
					string(a.Type),
					fmt.Sprintf("%.1f km", a.Distance/1000),
					formatDuration(a.Duration),
					trimp,
				})
			}

			fmt.Println(renderTable(
				[]string{"Start", "Type", "Distance", "Duration", "TRIMP"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window size in days")

	return cmd
}

func newZonesCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Show heart rate zone time allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openApp()
			if err != nil {
				return err
			}
			defer db.Close()

			from, to := reportWindow(days)
			summary, err := service.NewQueryService(db, cfg).GetZoneSummary(from, to)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(summary.Durations))
			for i, seconds := range summary.Durations {
				pct := 0.0
				if summary.TotalSeconds > 0 {
					pct = seconds / summary.TotalSeconds * 100
				}
				rows = append(rows, []string{
					fmt.Sprintf("Z%d", i+1),
					cfg.Zones.Labels[i],
					formatDuration(int(seconds)),
					fmt.Sprintf("%.1f%%", pct),
				})
			}

			fmt.Println(renderTable(
				[]string{"Zone", "Label", "Time", "Share"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Printf("%d activities (%d from samples, %d from average HR, %d without HR)\n",
				summary.Activities,
				summary.BySource[analysis.SourceSamples], summary.BySource[analysis.SourceAverage], summary.BySource[analysis.SourceNone])
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window size in days")

	return cmd
}

func newLoadCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Show chronic/acute training load and balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openApp()
			if err != nil {
				return err
			}
			defer db.Close()

			from, to := reportWindow(days)
			trend, err := service.NewQueryService(db, cfg).GetLoadTrend(from, to)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(trend.Series))
			for _, s := range trend.Series {
				rows = append(rows, []string{
					s.Date.Format("2006-01-02"),
					fmt.Sprintf("%.0f", s.TRIMP),
					fmt.Sprintf("%.1f", s.ChronicLoad),
					fmt.Sprintf("%.1f", s.AcuteLoad),
					fmt.Sprintf("%+.1f", s.Balance),
				})
			}

			fmt.Println(renderTable(
				[]string{"Date", "TRIMP", "Chronic", "Acute", "Balance"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Printf("Status: %s. %s\n", trend.Status, trend.Recommendation)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 42, "Window size in days")

	return cmd
}

func newPolarizationCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "polarization",
		Short: "Score intensity distribution against the 80/10/10 target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openApp()
			if err != nil {
				return err
			}
			defer db.Close()

			from, to := reportWindow(days)
			report, err := service.NewQueryService(db, cfg).GetPolarization(from, to)
			if err != nil {
				return err
			}

			fmt.Println(renderTable(
				[]string{"Bucket", "Zones", "Share", "Target"},
				[][]string{
					{"Low", "Z1-Z2", fmt.Sprintf("%.1f%%", report.LowPct), "80%"},
					{"Moderate", "Z3", fmt.Sprintf("%.1f%%", report.ModeratePct), "10%"},
					{"High", "Z4-Z5", fmt.Sprintf("%.1f%%", report.HighPct), "10%"},
				},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Printf("Polarization score: %.0f/100\nFocus: %s. %s\n",
				report.Score, report.Focus, report.Advice)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Window size in days")

	return cmd
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, seconds%60)
}
