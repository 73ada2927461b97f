// Package noon scrapes product listings from noon.com category pages.
// The category uses page-number pagination; each page is an independent
// surface, so pages are fetched concurrently and a failed page only costs
// its own records, never the batch.
package noon

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

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
	siteRoot       = "https://www.noon.com"
	defaultListURL = siteRoot + "/egypt-en/eg-gaming-laptops/"

	itemSelector = "div.ProductBoxLinkHandler_linkWrapper__b0qZ9"

	defaultMaxPages = 5
	// Concurrent pages share one Chrome; more tabs than this mostly buys
	// rate-limiting.
	pageWorkers = 3
)

// productSchema maps one product card to a flat record. Links are
// site-relative and images load lazily behind data-src.
var productSchema = extract.Schema{
	Container: itemSelector,
	BaseURL:   siteRoot,
	Fields: []extract.Field{
		{Name: "product_name", Selector: "h2.ProductDetailsSection_title__JorAV"},
		{Name: "rating", Selector: "span.RatingPreviewStar_textCtr__sfsJG"},
		{Name: "price", Selector: "strong.Price_amount__2sXa7"},
		{Name: "product_link", Selector: "a.ProductBoxLinkHandler_productBoxLink__FPhjp", Attr: "href", Resolve: true},
		{Name: "image_link", Selector: "img.ProductImageCarousel_productImage__jtsOn", Attr: "src", AttrFallback: "data-src", Resolve: true},
	},
}

// Scraper implements scraper.Scraper for noon.com.
type Scraper struct{}

func (s *Scraper) Name() string { return "noon" }

// Scrape fetches pages 1..MaxPages of the category concurrently and
// merges the results in page order.
func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	if target == "" {
		target = defaultListURL
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	b, err := browser.New(browser.Config{
		ProxyURL: opts.ProxyURL,
		Headless: !opts.ShowUI,
		Stealth:  opts.Stealth,
	})
	if err != nil {
		return nil, fmt.Errorf("noon: create browser: %w", err)
	}
	defer b.Close()

	log := opts.Log()
	started := time.Now()

	pages := make([]*loader.Result, maxPages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageWorkers)
	for i := 1; i <= maxPages; i++ {
		i := i
		g.Go(func() error {
			url := pageURL(target, i)
			res, err := s.scrapePage(gctx, b, url, opts)
			if err != nil {
				// One lost page must not abort the batch.
				log.Warn("noon: page failed", "page", i, "url", url, "error", err)
				return nil
			}
			pages[i-1] = res
			log.Info("noon: page done", "page", i, "items", res.Items, "converged", res.Converged)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("noon: %w", err)
	}

	merged := &extract.ResultSet{Columns: productSchema.Columns()}
	converged := true
	attempts := 0
	for _, res := range pages {
		if res == nil {
			converged = false
			continue
		}
		attempts += res.Attempts
		if !res.Converged {
			converged = false
		}
		rs, err := extract.Extract(res.HTML, productSchema)
		if err != nil {
			return nil, fmt.Errorf("noon: %w", err)
		}
		merged.Records = append(merged.Records, rs.Records...)
	}

	meta := scraper.Meta{
		Site:      s.Name(),
		URL:       target,
		StartedAt: started,
		Duration:  time.Since(started),
		Converged: converged,
		Attempts:  attempts,
	}
	return tabular.New("Noon Listings", meta, merged), nil
}

// scrapePage drives one category page through a short acquisition session
// so lazily-loaded cards and images are present in the markup.
func (s *Scraper) scrapePage(ctx context.Context, b *browser.Browser, url string, opts scraper.Options) (*loader.Result, error) {
	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).Timeout(opts.Timeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := page.Context(ctx).Timeout(opts.Timeout).WaitLoad(); err != nil {
		opts.Log().Debug("noon: wait load timed out", "url", url, "error", err)
	}

	cfg := opts.LoaderConfig(itemSelector, itemSelector)
	// A category page is one fixed screenful of products; a handful of
	// reveals settles it.
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 6
	}
	if cfg.StabilityThreshold <= 0 {
		cfg.StabilityThreshold = 2
	}

	return loader.New(opts.Logger).Acquire(ctx, loader.NewPageSurface(page), cfg)
}
