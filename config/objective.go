package config

import (
	"fmt"

	"github.com/mverel/caseplan/core/milp"
)

// ObjectiveConfig selects the objective weighting.
type ObjectiveConfig struct {
	// Mode is "count" (maximize scheduled cases) or "priority"
	// (weight each case by its priority column).
	Mode string `json:"mode"`
}

// SetDefaults applies sane defaults.
func (c *ObjectiveConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "count"
	}
}

// Validate checks the mode.
func (c ObjectiveConfig) Validate() error {
	if c.Mode != "count" && c.Mode != "priority" {
		return fmt.Errorf("unknown objective mode %s", c.Mode)
	}
	return nil
}

// Weighter returns the configured objective weighting.
func (c ObjectiveConfig) Weighter() milp.Weighter {
	if c.Mode == "priority" {
		return milp.PriorityObjective{}
	}
	return milp.CountObjective{}
}
