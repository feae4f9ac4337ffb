package abstraction

import (
	"errors"
	"fmt"
)

// Config tunes the abstraction engine. Zero values are replaced by the
// defaults in SetDefaults.
type Config struct {
	// DeltaTimeMinutes is the length of one simulated step.
	DeltaTimeMinutes float64 `json:"delta_time_minutes"`
	// Horizon is the maximum number of temporal steps.
	Horizon int `json:"horizon"`
	// Tolerance is used when comparing a step region with the general region.
	Tolerance float64 `json:"tolerance"`
	// Jitter is the smallest output change considered a ramp.
	Jitter float64 `json:"jitter"`
	// StartupDelta widens the on-interval of a plant sitting at its minimum.
	StartupDelta float64 `json:"startup_delta"`
	// ExtremalTolerance skips the ramp probe when the group already sits at
	// its minimum (or maximum) output.
	ExtremalTolerance float64 `json:"extremal_tolerance"`
	// Parallel abstracts independent sibling subtrees concurrently.
	Parallel bool `json:"parallel"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults applies defaults to unset fields.
func (c *Config) SetDefaults() {
	if c.DeltaTimeMinutes == 0 {
		c.DeltaTimeMinutes = 15
	}
	if c.Horizon == 0 {
		c.Horizon = 5
	}
	if c.Tolerance == 0 {
		c.Tolerance = 0.1
	}
	if c.Jitter == 0 {
		c.Jitter = 0.001
	}
	if c.StartupDelta == 0 {
		c.StartupDelta = 2.0
	}
	if c.ExtremalTolerance == 0 {
		c.ExtremalTolerance = 0.05
	}
}

// Validate checks that all values are usable.
func (c Config) Validate() error {
	var errs []error
	if c.DeltaTimeMinutes <= 0 {
		errs = append(errs, fmt.Errorf("delta_time_minutes must be positive, got %g", c.DeltaTimeMinutes))
	}
	if c.Horizon < 1 {
		errs = append(errs, fmt.Errorf("horizon must be at least 1, got %d", c.Horizon))
	}
	if c.Tolerance < 0 || c.Jitter < 0 || c.ExtremalTolerance < 0 {
		errs = append(errs, errors.New("tolerances must not be negative"))
	}
	if c.StartupDelta < 0 {
		errs = append(errs, fmt.Errorf("startup_delta must not be negative, got %g", c.StartupDelta))
	}
	return errors.Join(errs...)
}
