package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Load    LoadConfig    `json:"load"`
	Zones   ZonesConfig   `json:"zones"`
}

// AthleteConfig holds the physiological constants analytics depend on.
// Zero values mean "not configured": TRIMP and zone computations are
// skipped for athletes without them, never guessed.
type AthleteConfig struct {
	MaxHR     float64 `json:"max_hr"`
	RestingHR float64 `json:"resting_hr"`
}

// LoadConfig tunes the training load model.
type LoadConfig struct {
	ChronicDays int `json:"chronic_days"`
	AcuteDays   int `json:"acute_days"`

	// Balance status cut points, evaluated in descending order.
	FreshAbove   float64 `json:"fresh_above"`
	RestedAbove  float64 `json:"rested_above"`
	OptimalAbove float64 `json:"optimal_above"`
	TiredAbove   float64 `json:"tired_above"`
}

// ZonesConfig holds presentation-only zone metadata. Labels and colors are
// cosmetic and injected into output formatting; the analytics core never
// sees them.
type ZonesConfig struct {
	Labels [5]string `json:"labels"`
	Colors [5]string `json:"colors"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Load: LoadConfig{
			ChronicDays:  42,
			AcuteDays:    7,
			FreshAbove:   25,
			RestedAbove:  5,
			OptimalAbove: -10,
			TiredAbove:   -30,
		},
		Zones: ZonesConfig{
			Labels: [5]string{"Recovery", "Endurance", "Tempo", "Threshold", "Maximal"},
			Colors: [5]string{"#4fc3f7", "#81c784", "#ffd54f", "#ff8a65", "#e57373"},
		},
	}
}

// GetConfigDir returns the directory where config and data are stored
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainlog"), nil
}

func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from ~/.trainlog/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// CreateExample writes a default config file for the user to edit
func CreateExample() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path, err := getConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	cfg := DefaultConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the configuration for nonsensical values. An unset athlete
// profile is valid; analytics that need it degrade to their no-data branch.
func (c *Config) Validate() error {
	if c.Athlete.MaxHR != 0 || c.Athlete.RestingHR != 0 {
		if c.Athlete.MaxHR <= 0 || c.Athlete.RestingHR <= 0 {
			return fmt.Errorf("athlete max_hr and resting_hr must both be set")
		}
		if c.Athlete.MaxHR <= c.Athlete.RestingHR {
			return fmt.Errorf("athlete max_hr must be greater than resting_hr")
		}
	}
	if c.Load.ChronicDays <= 0 || c.Load.AcuteDays <= 0 {
		return fmt.Errorf("load windows must be positive")
	}
	if c.Load.AcuteDays >= c.Load.ChronicDays {
		return fmt.Errorf("acute window must be shorter than chronic window")
	}
	return nil
}
