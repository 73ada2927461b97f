package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// Surface is the loader's view of a live, renderable page. It is owned by
// the caller: the loader borrows it for one Acquire session and never
// closes it. A surface must not be shared between concurrent sessions.
type Surface interface {
	// WaitRegion blocks until selector resolves on the surface, or the
	// wait elapses.
	WaitRegion(ctx context.Context, selector string, wait time.Duration) error
	// Reveal triggers loading of more content by scrolling the region
	// (falling back to the window when the region itself cannot scroll)
	// by distance pixels.
	Reveal(ctx context.Context, selector string, distance int) error
	// ItemCount reports how many elements currently match selector.
	ItemCount(ctx context.Context, selector string) (int, error)
	// HTML returns the full serialised markup of the surface.
	HTML(ctx context.Context) (string, error)
}

// PageSurface adapts a rod page to the Surface interface.
type PageSurface struct {
	page *rod.Page
}

// NewPageSurface wraps an already-navigated rod page.
func NewPageSurface(page *rod.Page) *PageSurface {
	return &PageSurface{page: page}
}

func (s *PageSurface) WaitRegion(ctx context.Context, selector string, wait time.Duration) error {
	_, err := s.page.Context(ctx).Timeout(wait).Element(selector)
	if err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (s *PageSurface) Reveal(ctx context.Context, selector string, distance int) error {
	_, err := s.page.Context(ctx).Eval(`(sel, dist) => {
		const region = document.querySelector(sel);
		if (region && region.scrollHeight > region.clientHeight) {
			region.scrollBy(0, dist);
		} else {
			window.scrollBy(0, dist);
		}
	}`, selector, distance)
	if err != nil {
		return fmt.Errorf("reveal %q: %w", selector, err)
	}
	return nil
}

func (s *PageSurface) ItemCount(ctx context.Context, selector string) (int, error) {
	res, err := s.page.Context(ctx).Eval(`(sel) => document.querySelectorAll(sel).length`, selector)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return res.Value.Int(), nil
}

func (s *PageSurface) HTML(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return res.Value.Str(), nil
}
