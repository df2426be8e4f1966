package config

import "fmt"

// WatchConfig configures inbox mode.
type WatchConfig struct {
	Inbox         string
	OutputRoot    string
	MaxConcurrent int
}

// Validate checks required paths and fills defaults.
func (c *WatchConfig) Validate() error {
	if c.Inbox == "" {
		return fmt.Errorf("watch inbox is required")
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("watch output root is required")
	}

	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 1
	}

	return nil
}
