package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/siteloom/internal/config"
	"github.com/amosWeiskopf/siteloom/pkg/crawler"
	"github.com/amosWeiskopf/siteloom/pkg/fetcher"
	"github.com/amosWeiskopf/siteloom/pkg/notify"
	"github.com/amosWeiskopf/siteloom/pkg/reporter"
	"github.com/amosWeiskopf/siteloom/pkg/storage"
	"github.com/amosWeiskopf/siteloom/pkg/theme"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "siteloom",
	Short: "SiteLoom - website crawl and aggregation engine",
	Long: `SiteLoom discovers, fetches and aggregates a website's content into a
single structured document, and derives a best-guess brand theme from its markup.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [URL]",
	Short: "Crawl a website and aggregate its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootURL := args[0]
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		owner, _ := cmd.Flags().GetString("owner")
		store, _ := cmd.Flags().GetBool("store")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Crawler.SessionTimeout)
		defer cancel()

		c := newCrawler(cfg, logger)
		notifier := notify.LogNotifier{Logger: logger}

		doc, err := c.Run(ctx, rootURL)
		notify.Send(notifier, logger, doc, err, rootURL)
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		if store {
			fs, err := storage.NewFileStore(cfg.Storage.Path)
			if err != nil {
				return err
			}
			id, name, err := fs.Save(doc, owner)
			if err != nil {
				return fmt.Errorf("failed to store document: %w", err)
			}
			logger.Info().Str("id", id).Str("name", name).Msg("document stored")
		}

		rendered, err := reporter.New().Render(doc, format)
		if err != nil {
			return err
		}
		if output != "" {
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Printf("Output saved to %s\n", output)
		} else {
			fmt.Println(rendered)
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [URL]",
	Short: "Extract the brand theme from a single page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootURL := args[0]
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Crawler.SessionTimeout)
		defer cancel()

		f := fetcher.New(fetchOptions(cfg), logger)
		page, err := f.Fetch(ctx, rootURL)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		rec := theme.New().Extract(page.Body)
		out, err := renderJSON(rec)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.Logging.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}

func fetchOptions(cfg *config.Config) fetcher.Options {
	return fetcher.Options{
		Timeout:       cfg.Fetch.Timeout,
		PolitenessMin: cfg.Fetch.PolitenessMin,
		PolitenessMax: cfg.Fetch.PolitenessMax,
		BackoffMin:    cfg.Fetch.BackoffMin,
		BackoffMax:    cfg.Fetch.BackoffMax,
	}
}

func newCrawler(cfg *config.Config, logger zerolog.Logger) *crawler.Crawler {
	f := fetcher.New(fetchOptions(cfg), logger)
	return crawler.New(f, crawler.Options{
		MaxAdditionalURLs: cfg.Crawler.MaxAdditionalURLs,
		SitemapDepth:      cfg.Crawler.SitemapDepth,
		PageDelay:         cfg.Crawler.PageDelay,
	}, logger)
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal: %w", err)
	}
	return string(data), nil
}

func init() {
	crawlCmd.Flags().String("format", "json", "Output format (json, markdown, text)")
	crawlCmd.Flags().String("output", "", "Output file for the combined document")
	crawlCmd.Flags().Bool("store", false, "Persist the document via the file store")
	crawlCmd.Flags().String("owner", "local", "Owner identifier for stored documents")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(themeCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
