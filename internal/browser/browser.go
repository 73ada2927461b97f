// Package browser wraps rod's launcher and browser lifecycle so that the
// rest of the tool only deals with pages.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config controls how the browser is launched.
type Config struct {
	// ProxyURL routes all traffic through a proxy (e.g. http://127.0.0.1:7890).
	ProxyURL string
	// Headless hides the browser window. Disable to watch selectors live.
	Headless bool
	// Stealth applies anti-bot evasions to every new page. Listing sites
	// tend to serve empty shells to obvious automation.
	Stealth bool
}

// Browser wraps a launched rod.Browser instance.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config
}

// New launches a local Chrome and connects to it.
func New(cfg Config) (*Browser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	return &Browser{browser: b, launcher: l, cfg: cfg}, nil
}

// NewPage creates a fresh page. With Stealth enabled the page carries the
// stealth evasions before any navigation happens.
func (b *Browser) NewPage() (*rod.Page, error) {
	if b.cfg.Stealth {
		page, err := stealth.Page(b.browser)
		if err != nil {
			return nil, fmt.Errorf("browser: create stealth page: %w", err)
		}
		return page, nil
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	return page, nil
}

// Close shuts down the browser and kills the launched process.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
