package discovery

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/amosWeiskopf/siteloom/pkg/utils"
)

// Default probe locations for the primary sitemap strategy.
var sitemapProbePaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap/index"}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []loc    `xml:"url"`
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []loc    `xml:"sitemap"`
}

type loc struct {
	Loc string `xml:"loc"`
}

// collector accumulates unique same-host URLs up to the session budget,
// preserving discovery order.
type collector struct {
	host    string
	budget  int
	skip    map[string]bool
	seen    map[string]bool
	visited map[string]bool // sitemap documents already traversed
	urls    []string
}

func newCollector(host string, budget int, skip map[string]bool) *collector {
	return &collector{
		host:    host,
		budget:  budget,
		skip:    skip,
		seen:    make(map[string]bool),
		visited: make(map[string]bool),
	}
}

func (c *collector) full() bool { return len(c.urls) >= c.budget }

func (c *collector) add(raw string) {
	if c.full() {
		return
	}
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host != c.host {
		return
	}
	key := utils.NormalizeURL(raw)
	if c.seen[key] || c.skip[key] {
		return
	}
	c.seen[key] = true
	c.urls = append(c.urls, raw)
}

// probeSitemaps tries the default sitemap locations and traverses whatever
// responds. Probe failures are non-fatal; the strategy just yields less.
func (d *Discoverer) probeSitemaps(ctx context.Context, root *url.URL, c *collector) {
	for _, path := range sitemapProbePaths {
		if c.full() {
			return
		}
		d.traverseSitemap(ctx, root.Scheme+"://"+root.Host+path, 0, c)
	}
}

// traverseSitemap fetches one sitemap document, collecting leaf <url><loc>
// entries and recursing into same-host <sitemap><loc> indexes. Depth is
// bounded so cyclic or adversarially deep indexes terminate.
func (d *Discoverer) traverseSitemap(ctx context.Context, sitemapURL string, depth int, c *collector) {
	if depth >= d.maxDepth || c.full() || c.visited[sitemapURL] {
		return
	}
	c.visited[sitemapURL] = true

	page, err := d.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		d.logger.Debug().Str("sitemap", sitemapURL).Err(err).Msg("sitemap fetch failed")
		return
	}

	var set urlSet
	if err := xml.Unmarshal(page.Body, &set); err == nil && len(set.URLs) > 0 {
		for _, entry := range set.URLs {
			if c.full() {
				return
			}
			c.add(entry.Loc)
		}
		return
	}

	var index sitemapIndex
	if err := xml.Unmarshal(page.Body, &index); err != nil {
		d.logger.Debug().Str("sitemap", sitemapURL).Err(err).Msg("sitemap parse failed")
		return
	}
	for _, entry := range index.Sitemaps {
		if c.full() {
			return
		}
		nested := strings.TrimSpace(entry.Loc)
		u, err := url.Parse(nested)
		if err != nil || u.Host != c.host {
			continue
		}
		d.traverseSitemap(ctx, nested, depth+1, c)
	}
}
