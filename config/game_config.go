package config

import (
	"fmt"
	"time"
)

// GameConfig holds gameplay constants used by the views
type GameConfig struct {
	// StartingBalance is the baseline for overall profit when the backend
	// does not report one for the user
	StartingBalance float64       `yaml:"starting_balance"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	HistoryDays     int           `yaml:"history_days"`
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		StartingBalance: 10000,
		PollInterval:    60 * time.Second,
		HistoryDays:     7,
	}
}

func (c *GameConfig) Validate() error {
	if c.StartingBalance <= 0 {
		return fmt.Errorf("starting_balance must be greater than 0")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %s", c.PollInterval)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be greater than 0")
	}
	return nil
}
