// Package scraper defines the site scraper contract and the registry that
// site packages register themselves into.
package scraper

import (
	"context"
	"log/slog"
	"time"

	"lurl/internal/extract"
	"lurl/internal/loader"
)

// Scraper scrapes one site (or the generic profile-driven mode).
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

// Content is a scrape result that can render itself in every supported
// output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Tabular is implemented by contents backed by a flat result set; the
// history store and the jsonl format rely on it.
type Tabular interface {
	ResultSet() *extract.ResultSet
	Meta() Meta
}

// Meta describes how a result set was acquired.
type Meta struct {
	Site      string
	URL       string
	StartedAt time.Time
	Duration  time.Duration
	Converged bool
	Attempts  int
}

// Options carries CLI-level knobs into site scrapers.
type Options struct {
	Timeout  time.Duration
	ShowUI   bool
	Stealth  bool
	ProxyURL string

	// Acquisition policy overrides; zero values fall back to loader
	// defaults (except WaitInterval, where zero means no pause).
	RevealDistance int
	WaitInterval   time.Duration
	MaxAttempts    int
	Stability      int

	// MaxPages bounds page-number pagination on sites that use it.
	MaxPages int
	// Selector narrows generic (no-profile) output to one region.
	Selector string
	// ProfilePath points at a YAML scrape profile for the generic site.
	ProfilePath string

	Logger *slog.Logger
}

// Log returns the configured logger, falling back to slog.Default.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// LoaderConfig builds an acquisition config for the given region and item
// selectors, applying the CLI overrides.
func (o Options) LoaderConfig(region, item string) loader.Config {
	return loader.Config{
		RegionSelector:     region,
		ItemSelector:       item,
		RevealDistance:     o.RevealDistance,
		WaitInterval:       o.WaitInterval,
		MaxAttempts:        o.MaxAttempts,
		StabilityThreshold: o.Stability,
	}
}
