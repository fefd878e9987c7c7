package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trainlog/internal/service"
)

func newImportCommand() *cobra.Command {
	var gpxFlag string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an activity file (FIT, GPX, or CSV)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openApp()
			if err != nil {
				return err
			}
			defer db.Close()

			importer := service.NewImportService(db, cfg.Athlete)
			result, err := importer.ImportFile(cmd.Context(), args[0], gpxFlag)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			act := result.Activity
			fmt.Printf("Imported %s activity %s (%s, %.1f km, %s)\n",
				act.Type, act.ID, act.StartTime.Format("2006-01-02 15:04"),
				act.Distance/1000, formatDuration(act.Duration))
			if act.TRIMP != nil {
				fmt.Printf("Training impulse: %d\n", *act.TRIMP)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&gpxFlag, "gpx", "", "Companion GPX track file for the same activity")

	return cmd
}
