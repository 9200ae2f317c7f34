// Package crawler drives a crawl session: fetch the root page, extract its
// theme, discover additional same-host URLs and merge every successfully
// fetched page into one combined document.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/siteloom/internal/models"
	"github.com/amosWeiskopf/siteloom/pkg/discovery"
	"github.com/amosWeiskopf/siteloom/pkg/extractor"
	"github.com/amosWeiskopf/siteloom/pkg/fetcher"
	"github.com/amosWeiskopf/siteloom/pkg/theme"
	"github.com/amosWeiskopf/siteloom/pkg/utils"
)

// Options tunes one crawler instance.
type Options struct {
	MaxAdditionalURLs int           // combined discovery budget, default 50
	SitemapDepth      int           // nested sitemap recursion bound, default 3
	PageDelay         time.Duration // courtesy delay between additional fetches
}

// DefaultOptions match production pacing.
func DefaultOptions() Options {
	return Options{
		MaxAdditionalURLs: discovery.DefaultMaxURLs,
		SitemapDepth:      discovery.DefaultMaxDepth,
		PageDelay:         time.Second,
	}
}

// Crawler runs crawl sessions. Instances are safe to reuse across sessions:
// all session state (the scraped-URL set, the combined document) lives in
// Run's frame, never on the struct.
type Crawler struct {
	fetcher    *fetcher.Fetcher
	extractor  *extractor.Extractor
	themer     *theme.Extractor
	discoverer *discovery.Discoverer
	opts       Options
	logger     zerolog.Logger
}

// New wires a Crawler from its components.
func New(f *fetcher.Fetcher, opts Options, logger zerolog.Logger) *Crawler {
	if opts.MaxAdditionalURLs <= 0 {
		opts.MaxAdditionalURLs = discovery.DefaultMaxURLs
	}
	if opts.SitemapDepth <= 0 {
		opts.SitemapDepth = discovery.DefaultMaxDepth
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = time.Second
	}
	return &Crawler{
		fetcher:    f,
		extractor:  extractor.New(),
		themer:     theme.New(),
		discoverer: discovery.New(f, opts.MaxAdditionalURLs, opts.SitemapDepth, logger),
		opts:       opts,
		logger:     logger,
	}
}

// Run executes one crawl session for rootURL. A root fetch or parse failure
// fails the whole session; additional-page failures are logged and skipped.
// The caller's context is the only cancellation mechanism.
func (c *Crawler) Run(ctx context.Context, rootURL string) (*models.CombinedDocument, error) {
	root, err := url.Parse(rootURL)
	if err != nil || (root.Scheme != "http" && root.Scheme != "https") {
		return nil, &fetcher.Error{Kind: fetcher.KindInvalidURL, URL: rootURL, Err: err}
	}

	// Session state: owned here, reset every run.
	scraped := make(map[string]bool)
	scraped[utils.NormalizeURL(rootURL)] = true

	c.logger.Info().Str("url", rootURL).Msg("starting crawl session")

	raw, err := c.fetcher.Fetch(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("root fetch failed: %w", err)
	}
	rootRec, err := c.extractor.Extract(raw.Body, rootURL)
	if err != nil {
		return nil, &fetcher.Error{Kind: fetcher.KindParseFailure, URL: rootURL, Err: err}
	}

	// Theme extraction runs only against the root page's markup so theme
	// attribution stays unambiguous.
	themeRec := c.themer.Extract(raw.Body)

	doc := &models.CombinedDocument{
		PageRecord:       *rootRec,
		Domain:           registrableDomain(root),
		TotalURLsScraped: 1,
		Theme:            themeRec,
		ScrapingMethod:   models.ScrapingMethod,
		CrawledAt:        time.Now().UTC(),
	}
	c.recordInternalLinks(doc, root)

	discovered := c.discoverer.Discover(ctx, root, rootRec.Links, scraped)
	c.logger.Info().Int("discovered", len(discovered)).Msg("url discovery complete")

	limiter := rate.NewLimiter(rate.Every(c.opts.PageDelay), 1)
	for _, du := range discovered {
		key := utils.NormalizeURL(du.URL)
		if scraped[key] {
			continue
		}
		scraped[key] = true

		if err := limiter.Wait(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("session canceled during additional fetches")
			break
		}

		page, err := c.fetcher.Fetch(ctx, du.URL)
		if err != nil {
			c.logger.Warn().Str("url", du.URL).Err(err).Msg("additional fetch failed, skipping")
			continue
		}
		rec, err := c.extractor.Extract(page.Body, du.URL)
		if err != nil {
			c.logger.Warn().Str("url", du.URL).Err(err).Msg("additional page unparseable, skipping")
			continue
		}

		mergePage(doc, rec)
		doc.AdditionalURLs = append(doc.AdditionalURLs, models.AdditionalURL{
			URL:       du.URL,
			Source:    du.Source,
			Title:     rec.Title,
			Timestamp: time.Now().UTC(),
		})
		doc.TotalURLsScraped++
		c.logger.Debug().Str("url", du.URL).Str("source", du.Source).Msg("merged additional page")
	}

	c.logger.Info().
		Int("total_urls", doc.TotalURLsScraped).
		Int("internal_links", doc.InternalLinksFound).
		Msg("crawl session done")
	return doc, nil
}

// recordInternalLinks keeps the raw harvested same-host link URLs on the
// document for reference, whether or not they were fetched.
func (c *Crawler) recordInternalLinks(doc *models.CombinedDocument, root *url.URL) {
	seen := make(map[string]bool)
	for _, link := range doc.Links {
		u, err := url.Parse(link.URL)
		if err != nil || u.Host != root.Host {
			continue
		}
		key := utils.NormalizeURL(link.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		doc.StoredInternalLinks = append(doc.StoredInternalLinks, link.URL)
	}
	doc.InternalLinksFound = len(doc.StoredInternalLinks)
}

// registrableDomain derives the eTLD+1 for display; IP and localhost hosts
// fall back to the raw host.
func registrableDomain(u *url.URL) string {
	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return u.Host
	}
	return domain
}
