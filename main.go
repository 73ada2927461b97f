package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"lurl/internal/formatter"
	"lurl/internal/scraper"
	"lurl/internal/sink"
	_ "lurl/internal/sites/generic"
	_ "lurl/internal/sites/nawy"
	_ "lurl/internal/sites/noon"
	"lurl/internal/store"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	site          string
	outputFormat  string
	outputFile    string
	force         bool
	selector      string
	profilePath   string
	historyPath   string
	timeout       time.Duration
	waitInterval  time.Duration
	distance      int
	maxAttempts   int
	stability     int
	maxPages      int
	showUI        bool
	useStealth    bool
	verbose       bool
	proxyURL      string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "lurl [URL]",
		Short:   "Scrape lazily-loaded listing pages into flat records",
		Version: version,
		Long: `lurl drives a headless browser against listing pages that reveal
their content incrementally (infinite scroll, lazy loading), keeps
revealing until the item count stops growing, and extracts the loaded
items into flat records ready for CSV or JSON output.`,
		Example: `  # Scrape Nawy property listings to CSV
  lurl --site nawy -o properties.csv

  # Scrape several noon.com category pages into one result set
  lurl --site noon --max-pages 3 -f csv -o laptops.csv "https://www.noon.com/egypt-en/eg-gaming-laptops/"

  # Scrape an arbitrary listing page with a YAML profile
  lurl --scrape-profile listings.yaml -o listings.csv

  # Fetch a page region as Markdown
  lurl -s "#content" -f markdown "https://example.com/article"

  # Keep a history of runs in SQLite
  lurl --site nawy --history runs.db -o properties.csv`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&site, "site", "generic", "Site-specific mode (generic, nawy, noon)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (html, text, markdown, json, csv, jsonl)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().BoolVar(&force, "force", false, "Overwrite the output file if it exists")
	rootCmd.Flags().StringVarP(&selector, "selector", "s", "", "CSS selector narrowing generic output to one region")
	rootCmd.Flags().StringVar(&profilePath, "scrape-profile", "", "YAML scrape profile for the generic site")
	rootCmd.Flags().StringVar(&historyPath, "history", "", "SQLite database recording tabular runs")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Navigation timeout")
	rootCmd.Flags().DurationVar(&waitInterval, "wait", 2*time.Second, "Pause after each reveal before recounting items")
	rootCmd.Flags().IntVar(&distance, "distance", 0, "Reveal distance in pixels per attempt (0 for default)")
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Max reveal attempts (0 for site default)")
	rootCmd.Flags().IntVar(&stability, "stability", 0, "Consecutive unchanged counts treated as converged (0 for default)")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Max pages on paginated sites (0 for site default)")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().BoolVar(&useStealth, "stealth", false, "Open pages with stealth evasions")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log acquisition progress")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("LURL_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to LURL_PROXY env var")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) > 0 {
		target = args[0]
	}

	// If output file is specified but format is not, infer format from file extension
	if outputFile != "" && !cmd.Flags().Changed("format") {
		if inferred := inferFormatFromExtension(outputFile); inferred != "" {
			outputFormat = inferred
		}
	}

	if err := validateFlags(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := scraper.Options{
		Timeout:        timeout,
		ShowUI:         showUI,
		Stealth:        useStealth,
		ProxyURL:       proxyURL,
		RevealDistance: distance,
		WaitInterval:   waitInterval,
		MaxAttempts:    maxAttempts,
		Stability:      stability,
		MaxPages:       maxPages,
		Selector:       selector,
		ProfilePath:    profilePath,
		Logger:         logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, ok := scraper.Get(site)
	if !ok {
		return fmt.Errorf("unknown site: %s (available: %s)", site, strings.Join(scraper.Names(), ", "))
	}
	if site == "generic" {
		target = normalizeURL(target)
	}

	content, err := s.Scrape(ctx, target, opts)
	if err != nil {
		return fmt.Errorf("failed to scrape: %w", err)
	}

	if historyPath != "" {
		if err := recordHistory(ctx, content); err != nil {
			logger.Warn("history not recorded", "error", err)
		}
	}

	outputContent, err := formatter.Format(content, outputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputFile != "" {
		if err := sink.WriteFile(outputFile, []byte(outputContent), force); err != nil {
			if errors.Is(err, sink.ErrExists) {
				return fmt.Errorf("%s already exists; pass --force to overwrite", outputFile)
			}
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Output written to: %s\n", outputFile)
	} else {
		fmt.Println(outputContent)
	}

	if tab, ok := content.(scraper.Tabular); ok {
		meta := tab.Meta()
		if !meta.Converged {
			fmt.Fprintf(os.Stderr, "Warning: item count was still growing when the attempt budget ran out; results may be partial (%d attempts)\n", meta.Attempts)
		}
	}

	return nil
}

// recordHistory persists tabular results to the history database.
func recordHistory(ctx context.Context, content scraper.Content) error {
	tab, ok := content.(scraper.Tabular)
	if !ok {
		return fmt.Errorf("--history needs tabular results; site %q produced page content", site)
	}

	st, err := store.Open(historyPath)
	if err != nil {
		return err
	}
	defer st.Close()

	meta := tab.Meta()
	_, err = st.RecordRun(ctx, store.Run{
		Site:      meta.Site,
		URL:       meta.URL,
		StartedAt: meta.StartedAt,
		Duration:  meta.Duration,
		Converged: meta.Converged,
		Attempts:  meta.Attempts,
	}, tab.ResultSet())
	return err
}

func validateFlags() error {
	validFormats := map[string]bool{
		"html":     true,
		"text":     true,
		"markdown": true,
		"json":     true,
		"csv":      true,
		"jsonl":    true,
	}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format: %s", outputFormat)
	}

	if selector != "" && profilePath != "" {
		return fmt.Errorf("--selector and --scrape-profile are mutually exclusive")
	}
	if (selector != "" || profilePath != "") && site != "generic" {
		return fmt.Errorf("--selector and --scrape-profile only apply to the generic site")
	}
	if waitInterval < 0 {
		return fmt.Errorf("--wait must not be negative")
	}
	if maxAttempts < 0 || stability < 0 || distance < 0 || maxPages < 0 {
		return fmt.Errorf("--max-attempts, --stability, --distance and --max-pages must not be negative")
	}

	return nil
}

// inferFormatFromExtension infers output format from file extension
func inferFormatFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}

// normalizeURL adds https:// when the target has no protocol prefix.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}
