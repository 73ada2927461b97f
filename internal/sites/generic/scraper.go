// Package generic scrapes arbitrary pages. With a scrape profile it runs
// the same reveal-and-extract pipeline as the dedicated sites; without
// one it fetches the page (or a selected region) and hands back markup.
package generic

import (
	"context"
	"fmt"
	"time"

	"lurl/internal/browser"
	"lurl/internal/config"
	"lurl/internal/extract"
	"lurl/internal/loader"
	"lurl/internal/scraper"
	"lurl/internal/tabular"

	"github.com/go-rod/rod"
)

func init() {
	scraper.Register(&Scraper{})
}

// Scraper implements scraper.Scraper for arbitrary URLs.
type Scraper struct{}

func (s *Scraper) Name() string { return "generic" }

func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	var profile *config.Profile
	if opts.ProfilePath != "" {
		p, err := config.Load(opts.ProfilePath)
		if err != nil {
			return nil, err
		}
		profile = p
		if target == "" {
			target = profile.URL
		}
	}
	if target == "" {
		return nil, fmt.Errorf("generic: a URL is required")
	}

	b, err := browser.New(browser.Config{
		ProxyURL: opts.ProxyURL,
		Headless: !opts.ShowUI,
		Stealth:  opts.Stealth,
	})
	if err != nil {
		return nil, fmt.Errorf("generic: create browser: %w", err)
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("generic: create page: %w", err)
	}
	defer page.Close()

	started := time.Now()
	if err := page.Context(ctx).Timeout(opts.Timeout).Navigate(target); err != nil {
		return nil, fmt.Errorf("generic: navigate %s: %w", target, err)
	}
	if err := page.Context(ctx).Timeout(opts.Timeout).WaitLoad(); err != nil {
		opts.Log().Warn("generic: wait load timed out", "url", target, "error", err)
	}

	if profile != nil {
		return s.scrapeProfile(ctx, page, target, started, profile, opts)
	}
	return s.scrapePlain(ctx, page, target, opts)
}

// scrapeProfile runs the acquisition loop and schema extraction declared
// by the profile.
func (s *Scraper) scrapeProfile(ctx context.Context, page *rod.Page, target string, started time.Time, profile *config.Profile, opts scraper.Options) (scraper.Content, error) {
	cfg := profile.LoaderConfig()
	// CLI flags override the profile's scroll policy.
	if opts.MaxAttempts > 0 {
		cfg.MaxAttempts = opts.MaxAttempts
	}
	if opts.Stability > 0 {
		cfg.StabilityThreshold = opts.Stability
	}
	if opts.RevealDistance > 0 {
		cfg.RevealDistance = opts.RevealDistance
	}
	if opts.WaitInterval > 0 {
		cfg.WaitInterval = opts.WaitInterval
	}

	res, err := loader.New(opts.Logger).Acquire(ctx, loader.NewPageSurface(page), cfg)
	if err != nil {
		return nil, fmt.Errorf("generic: %w", err)
	}

	rs, err := extract.Extract(res.HTML, profile.Schema)
	if err != nil {
		return nil, fmt.Errorf("generic: %w", err)
	}

	meta := scraper.Meta{
		Site:      s.Name(),
		URL:       target,
		StartedAt: started,
		Duration:  time.Since(started),
		Converged: res.Converged,
		Attempts:  res.Attempts,
	}
	return tabular.New("Listings", meta, rs), nil
}

// scrapePlain returns the page markup, narrowed to a selector when one
// was given.
func (s *Scraper) scrapePlain(ctx context.Context, page *rod.Page, target string, opts scraper.Options) (scraper.Content, error) {
	var title string
	if info, err := page.Info(); err == nil {
		title = info.Title
	}

	var markup string
	if opts.Selector != "" {
		el, err := page.Context(ctx).Timeout(opts.Timeout).Element(opts.Selector)
		if err != nil {
			return nil, fmt.Errorf("generic: find %q on %s: %w", opts.Selector, target, err)
		}
		markup, err = el.HTML()
		if err != nil {
			return nil, fmt.Errorf("generic: read %q on %s: %w", opts.Selector, target, err)
		}
	} else {
		html, err := page.Context(ctx).HTML()
		if err != nil {
			return nil, fmt.Errorf("generic: read page %s: %w", target, err)
		}
		markup = html
	}

	return NewPageContent(title, target, markup), nil
}
