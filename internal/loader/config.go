package loader

import (
	"fmt"
	"time"
)

// Config is the acquisition policy for one session. Construct it once and
// pass it by value; the loader never mutates the caller's copy.
type Config struct {
	// RegionSelector locates the scrollable region holding the listings.
	RegionSelector string
	// ItemSelector matches one listing item; its match count drives
	// convergence detection.
	ItemSelector string
	// RevealDistance is how many pixels each reveal action scrolls.
	RevealDistance int
	// WaitInterval is the pause after each reveal, giving the page time to
	// populate asynchronously.
	WaitInterval time.Duration
	// RegionWait bounds the initial wait for RegionSelector to resolve.
	RegionWait time.Duration
	// MaxAttempts caps the number of reveal actions per session.
	MaxAttempts int
	// StabilityThreshold is the number of consecutive no-growth
	// observations before the content is considered fully revealed. Set it
	// >= MaxAttempts to reproduce the fixed-count behaviour of scripts
	// that always burn the whole attempt budget.
	StabilityThreshold int
}

func (c *Config) applyDefaults() {
	if c.RevealDistance <= 0 {
		c.RevealDistance = 1500
	}
	if c.RegionWait <= 0 {
		c.RegionWait = 15 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 40
	}
	if c.StabilityThreshold <= 0 {
		c.StabilityThreshold = 3
	}
}

// Validate reports the first policy violation.
func (c Config) Validate() error {
	if c.RegionSelector == "" {
		return fmt.Errorf("loader: region selector is required")
	}
	if c.ItemSelector == "" {
		return fmt.Errorf("loader: item selector is required")
	}
	if c.WaitInterval < 0 {
		return fmt.Errorf("loader: wait interval must be >= 0, got %s", c.WaitInterval)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("loader: max attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.StabilityThreshold < 1 {
		return fmt.Errorf("loader: stability threshold must be >= 1, got %d", c.StabilityThreshold)
	}
	return nil
}
