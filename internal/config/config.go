// Package config loads YAML scrape profiles for the generic site: where
// the listings live, how to scroll them out, and how to turn them into
// records.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lurl/internal/extract"
	"lurl/internal/loader"
)

// Profile describes one profile-driven scrape.
type Profile struct {
	// URL is the default target; a URL argument on the command line wins.
	URL string `yaml:"url,omitempty"`
	// Region is the scrollable region selector. Defaults to the schema's
	// container when omitted.
	Region string         `yaml:"region,omitempty"`
	Scroll ScrollConfig   `yaml:"scroll"`
	Schema extract.Schema `yaml:"schema"`
}

// ScrollConfig is the acquisition policy of a profile.
type ScrollConfig struct {
	Distance    int           `yaml:"distance"`
	Wait        time.Duration `yaml:"wait"`
	RegionWait  time.Duration `yaml:"region_wait"`
	MaxAttempts int           `yaml:"max_attempts"`
	Stability   int           `yaml:"stability"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	p.applyDefaults()
	if err := p.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.Region == "" {
		p.Region = p.Schema.Container
	}
	if p.Scroll.Wait <= 0 {
		p.Scroll.Wait = 2 * time.Second
	}
}

// LoaderConfig translates the profile into an acquisition config.
func (p *Profile) LoaderConfig() loader.Config {
	return loader.Config{
		RegionSelector:     p.Region,
		ItemSelector:       p.Schema.Container,
		RevealDistance:     p.Scroll.Distance,
		WaitInterval:       p.Scroll.Wait,
		RegionWait:         p.Scroll.RegionWait,
		MaxAttempts:        p.Scroll.MaxAttempts,
		StabilityThreshold: p.Scroll.Stability,
	}
}
