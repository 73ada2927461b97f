package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSurface plays back a scripted sequence of item counts. Index 0 is
// the count visible before the first reveal; each reveal advances one
// step and the sequence's last value repeats forever.
type fakeSurface struct {
	counts      []int
	step        int
	reveals     int
	countReads  int
	regionErr   error
	revealErr   error
	revealErrAt int // fail the Nth reveal (1-based), 0 = never
	countErrAt  int // fail the Nth count read (1-based), 0 = never
	htmlErr     error
}

func (f *fakeSurface) WaitRegion(ctx context.Context, selector string, wait time.Duration) error {
	return f.regionErr
}

func (f *fakeSurface) Reveal(ctx context.Context, selector string, distance int) error {
	if f.revealErrAt > 0 && f.reveals+1 == f.revealErrAt {
		return f.revealErr
	}
	f.reveals++
	if f.step < len(f.counts)-1 {
		f.step++
	}
	return nil
}

func (f *fakeSurface) ItemCount(ctx context.Context, selector string) (int, error) {
	f.countReads++
	if f.countErrAt > 0 && f.countReads == f.countErrAt {
		return 0, errors.New("tab crashed")
	}
	return f.counts[f.step], nil
}

func (f *fakeSurface) HTML(ctx context.Context) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	return fmt.Sprintf("<html><body>%d items</body></html>", f.counts[f.step]), nil
}

func testConfig() Config {
	return Config{
		RegionSelector:     "#list",
		ItemSelector:       ".item",
		WaitInterval:       time.Millisecond,
		MaxAttempts:        10,
		StabilityThreshold: 2,
	}
}

func TestAcquireConvergesAfterGrowthStops(t *testing.T) {
	// Region renders 3 items, grows to 7 after the first reveal, then
	// stays at 7: one growing reveal plus two confirming reveals.
	surf := &fakeSurface{counts: []int{3, 7, 7, 7}}

	res, err := New(nil).Acquire(context.Background(), surf, testConfig())
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.Equal(t, 3, res.Attempts)
	require.Equal(t, 3, surf.reveals)
	require.Equal(t, 7, res.Items)
	require.Contains(t, res.HTML, "7 items")
}

func TestAcquireExhaustsBudgetWhileGrowing(t *testing.T) {
	counts := make([]int, 20)
	for i := range counts {
		counts[i] = i + 1 // grows on every observation
	}
	surf := &fakeSurface{counts: counts}

	cfg := testConfig()
	cfg.MaxAttempts = 10

	res, err := New(nil).Acquire(context.Background(), surf, cfg)
	require.NoError(t, err)

	// Exhaustion is success, not an error; it only loses the quality flag.
	require.False(t, res.Converged)
	require.Equal(t, 10, res.Attempts)
	require.Equal(t, 10, surf.reveals)
	require.Equal(t, 11, res.Items)
}

func TestAcquireNeverExceedsAttemptBudget(t *testing.T) {
	for _, max := range []int{1, 3, 7} {
		surf := &fakeSurface{counts: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
		cfg := testConfig()
		cfg.MaxAttempts = max

		res, err := New(nil).Acquire(context.Background(), surf, cfg)
		require.NoError(t, err)
		require.LessOrEqual(t, surf.reveals, max)
		require.Equal(t, surf.reveals, res.Attempts)
	}
}

func TestAcquireStaticRegionConvergesImmediately(t *testing.T) {
	surf := &fakeSurface{counts: []int{5}}

	res, err := New(nil).Acquire(context.Background(), surf, testConfig())
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Equal(t, 2, res.Attempts) // exactly StabilityThreshold confirmations
	require.Equal(t, 5, res.Items)
}

func TestAcquireRegionNotFound(t *testing.T) {
	surf := &fakeSurface{counts: []int{0}, regionErr: errors.New("element not found")}

	_, err := New(nil).Acquire(context.Background(), surf, testConfig())

	var notFound *RegionNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "#list", notFound.Selector)
	require.Zero(t, surf.reveals)
}

func TestAcquireSurfaceLostOnReveal(t *testing.T) {
	surf := &fakeSurface{
		counts:      []int{3, 7, 7},
		revealErr:   errors.New("browser disconnected"),
		revealErrAt: 2,
	}

	_, err := New(nil).Acquire(context.Background(), surf, testConfig())

	var lost *SurfaceLostError
	require.ErrorAs(t, err, &lost)
	require.Equal(t, "reveal", lost.Op)
	require.Equal(t, 1, lost.Attempts)
}

func TestAcquireSurfaceLostOnCount(t *testing.T) {
	surf := &fakeSurface{counts: []int{3, 7, 7}, countErrAt: 2}

	_, err := New(nil).Acquire(context.Background(), surf, testConfig())

	var lost *SurfaceLostError
	require.ErrorAs(t, err, &lost)
	require.Equal(t, "count", lost.Op)
}

func TestAcquireCancelledBetweenIterations(t *testing.T) {
	surf := &fakeSurface{counts: []int{1, 2, 3, 4, 5, 6, 7, 8}}

	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig()
	cfg.WaitInterval = 50 * time.Millisecond
	cfg.MaxAttempts = 100

	go func() {
		time.Sleep(120 * time.Millisecond)
		cancel()
	}()

	_, err := New(nil).Acquire(ctx, surf, cfg)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, surf.reveals, 100)
}

func TestAcquireFixedCountModeBurnsFullBudget(t *testing.T) {
	// StabilityThreshold >= MaxAttempts reproduces the naive scripts that
	// always run the whole scroll budget.
	surf := &fakeSurface{counts: []int{4}}

	cfg := testConfig()
	cfg.MaxAttempts = 5
	cfg.StabilityThreshold = 5

	res, err := New(nil).Acquire(context.Background(), surf, cfg)
	require.NoError(t, err)
	require.Equal(t, 5, res.Attempts)
	require.True(t, res.Converged)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing region", func(c *Config) { c.RegionSelector = "" }},
		{"missing item", func(c *Config) { c.ItemSelector = "" }},
		{"negative wait", func(c *Config) { c.WaitInterval = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
