// Package nawy scrapes real-estate listings from nawy.com search pages.
// The results live in an infinitely-scrolling container, so the whole
// page is revealed through the incremental loader before extraction.
package nawy

import (
	"context"
	"fmt"
	"time"

	"lurl/internal/browser"
	"lurl/internal/extract"
	"lurl/internal/loader"
	"lurl/internal/scraper"
	"lurl/internal/tabular"
)

func init() {
	scraper.Register(&Scraper{})
}

const (
	defaultSearchURL = "https://www.nawy.com/search?page_number=1&category=property"

	// The results container and listing cards carry generated style
	// classes; these track the deployed markup and break when the site
	// ships a new build.
	regionSelector = "div.sc-88b4dfdb-0.cgVQXi"
	itemSelector   = "div.sc-100c08da-0.eeBcMz"
)

// listingSchema maps one property card to a flat record. The area, beds
// and baths values arrive as labeled feature blocks on the card.
var listingSchema = extract.Schema{
	Container: itemSelector,
	Fields: []extract.Field{
		{Name: "location", Selector: "div.area"},
		{Name: "name", Selector: "div.name"},
		{Name: "description", Selector: "h2.sc-4b9910fd-0.hyACaB"},
		{Name: "price", Selector: "div.price-container span.price"},
	},
	Groups: []extract.Group{{
		Selector:      "div.sc-234f71bd-0.bbWDeD",
		LabelSelector: "span.label",
		ValueSelector: "span.value",
		Fields: []extract.GroupField{
			{Label: "m2", Field: "area_m2"},
			{Label: "beds", Field: "beds"},
			{Label: "baths", Field: "baths"},
		},
	}},
}

// Scraper implements scraper.Scraper for nawy.com.
type Scraper struct{}

func (s *Scraper) Name() string { return "nawy" }

// Scrape reveals the full search result list and extracts one record per
// property card. An empty target falls back to the default search page.
func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	if target == "" {
		target = defaultSearchURL
	}

	b, err := browser.New(browser.Config{
		ProxyURL: opts.ProxyURL,
		Headless: !opts.ShowUI,
		Stealth:  opts.Stealth,
	})
	if err != nil {
		return nil, fmt.Errorf("nawy: create browser: %w", err)
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("nawy: create page: %w", err)
	}
	defer page.Close()

	started := time.Now()
	if err := page.Context(ctx).Timeout(opts.Timeout).Navigate(target); err != nil {
		return nil, fmt.Errorf("nawy: navigate %s: %w", target, err)
	}
	if err := page.Context(ctx).Timeout(opts.Timeout).WaitLoad(); err != nil {
		opts.Log().Warn("nawy: wait load timed out", "url", target, "error", err)
	}

	res, err := loader.New(opts.Logger).Acquire(ctx,
		loader.NewPageSurface(page),
		opts.LoaderConfig(regionSelector, itemSelector))
	if err != nil {
		return nil, fmt.Errorf("nawy: %w", err)
	}

	rs, err := extract.Extract(res.HTML, listingSchema)
	if err != nil {
		return nil, fmt.Errorf("nawy: %w", err)
	}

	meta := scraper.Meta{
		Site:      s.Name(),
		URL:       target,
		StartedAt: started,
		Duration:  time.Since(started),
		Converged: res.Converged,
		Attempts:  res.Attempts,
	}
	return tabular.New("Nawy Properties", meta, rs), nil
}
