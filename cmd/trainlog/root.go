package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trainlog/internal/config"
	"trainlog/internal/store"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trainlog",
		Short:         "Local training diary: import activity files, analyze training load",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newActivitiesCommand())
	rootCmd.AddCommand(newZonesCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newPolarizationCommand())

	return rootCmd
}

// openApp loads the config and opens the database. A missing config file is
// created with defaults so the first run works without setup.
func openApp() (*config.Config, *store.DB, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, nil, fmt.Errorf("creating default config: %w", err)
		}
		dir, _ := config.GetConfigDir()
		fmt.Printf("Created default config at %s/config.json, set your max and resting heart rate there.\n", dir)
		defaults := config.DefaultConfig()
		cfg = &defaults
	} else if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return cfg, db, nil
}
