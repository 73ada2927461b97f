// Package loader drives a renderable content surface through repeated
// reveal actions until the target region stops producing new items, then
// hands back the fully-revealed markup.
//
// The loop is single-threaded and cooperative: one reveal, one wait, one
// count read per iteration. Multiple surfaces may be acquired concurrently
// as long as each has its own Acquire call.
package loader

import (
	"context"
	"log/slog"
	"time"
)

// Result is the outcome of one acquisition session. Attempt exhaustion
// without convergence is still success; Converged is a quality signal,
// not an error channel.
type Result struct {
	// HTML is the full serialised markup after the loop ended.
	HTML string
	// Converged is true when the item count stopped growing for
	// StabilityThreshold consecutive attempts before the budget ran out.
	Converged bool
	// Attempts is the number of reveal actions actually issued.
	Attempts int
	// Items is the final item count.
	Items int
}

// Loader runs acquisition sessions.
type Loader struct {
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Acquire reveals as much lazily-loaded content as possible from surface
// under the policy in cfg.
//
// Fatal outcomes are *RegionNotFoundError (the region never appeared) and
// *SurfaceLostError (the automation layer failed mid-session); both abort
// the session. Context cancellation between iterations aborts with
// ctx.Err(). Everything else returns a Result.
func (l *Loader) Acquire(ctx context.Context, surface Surface, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := surface.WaitRegion(ctx, cfg.RegionSelector, cfg.RegionWait); err != nil {
		return nil, &RegionNotFoundError{Selector: cfg.RegionSelector, Wait: cfg.RegionWait, Err: err}
	}

	count, err := surface.ItemCount(ctx, cfg.ItemSelector)
	if err != nil {
		return nil, &SurfaceLostError{Op: "count", Err: err}
	}

	attempts := 0
	stable := 0
	converged := false

	for attempts < cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := surface.Reveal(ctx, cfg.RegionSelector, cfg.RevealDistance); err != nil {
			return nil, &SurfaceLostError{Op: "reveal", Attempts: attempts, Err: err}
		}
		attempts++

		if err := sleep(ctx, cfg.WaitInterval); err != nil {
			return nil, err
		}

		n, err := surface.ItemCount(ctx, cfg.ItemSelector)
		if err != nil {
			return nil, &SurfaceLostError{Op: "count", Attempts: attempts, Err: err}
		}

		if n > count {
			count = n
			stable = 0
		} else {
			stable++
		}

		l.logger.Debug("loader: reveal",
			"attempt", attempts, "items", count, "stable", stable)

		if stable >= cfg.StabilityThreshold {
			converged = true
			break
		}
	}

	html, err := surface.HTML(ctx)
	if err != nil {
		return nil, &SurfaceLostError{Op: "markup", Attempts: attempts, Err: err}
	}

	l.logger.Info("loader: acquisition finished",
		"attempts", attempts, "items", count, "converged", converged)

	return &Result{HTML: html, Converged: converged, Attempts: attempts, Items: count}, nil
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
