// Package discovery finds candidate same-host URLs for a crawl session via
// three fallback strategies: nested sitemap traversal, robots.txt directives
// and internal links harvested from the root page.
package discovery

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/amosWeiskopf/siteloom/internal/models"
	"github.com/amosWeiskopf/siteloom/pkg/fetcher"
)

const (
	// DefaultMaxURLs bounds the combined total of additional URLs.
	DefaultMaxURLs = 50
	// DefaultMaxDepth bounds nested sitemap recursion.
	DefaultMaxDepth = 3
)

// Discoverer runs the discovery strategies for one host. It holds no session
// state; the caller passes the session's scraped set on every call.
type Discoverer struct {
	fetcher  *fetcher.Fetcher
	logger   zerolog.Logger
	maxURLs  int
	maxDepth int
}

// New creates a Discoverer sharing the session's fetcher.
func New(f *fetcher.Fetcher, maxURLs, maxDepth int, logger zerolog.Logger) *Discoverer {
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Discoverer{fetcher: f, logger: logger, maxURLs: maxURLs, maxDepth: maxDepth}
}

// Discover composes the three strategies in strict fallback order:
//
//	1. sitemap probe + nested traversal
//	2. robots.txt Allow paths; its Sitemap directives are traversed only
//	   when the primary probe found nothing
//	3. same-host internal links from the root page
//
// Later strategies only top up what earlier ones left of the budget. URLs in
// the scraped set are skipped at every step.
func (d *Discoverer) Discover(ctx context.Context, root *url.URL, rootLinks []models.Link, scraped map[string]bool) []models.DiscoveredURL {
	c := newCollector(root.Host, d.maxURLs, scraped)

	d.probeSitemaps(ctx, root, c)
	fromSitemap := len(c.urls)
	d.logger.Debug().Int("count", fromSitemap).Msg("sitemap discovery done")

	fromRobots := 0
	if !c.full() {
		result := d.fetchRobots(ctx, root)
		if fromSitemap == 0 {
			for _, sm := range result.sitemaps {
				if c.full() {
					break
				}
				d.traverseSitemap(ctx, sm, 0, c)
			}
		}
		for _, u := range result.urls {
			if c.full() {
				break
			}
			c.add(u)
		}
		fromRobots = len(c.urls) - fromSitemap
		d.logger.Debug().Int("count", fromRobots).Msg("robots discovery done")
	}

	if !c.full() {
		for _, link := range rootLinks {
			if c.full() {
				break
			}
			u, err := url.Parse(link.URL)
			if err != nil || u.Host != root.Host {
				continue
			}
			c.add(link.URL)
		}
	}

	discovered := make([]models.DiscoveredURL, 0, len(c.urls))
	for i, u := range c.urls {
		source := models.SourceInternalLinks
		switch {
		case i < fromSitemap:
			source = models.SourceSitemap
		case i < fromSitemap+fromRobots:
			source = models.SourceRobots
		}
		discovered = append(discovered, models.DiscoveredURL{URL: u, Source: source})
	}
	return discovered
}
