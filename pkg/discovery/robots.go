package discovery

import (
	"bufio"
	"context"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// robotsResult carries what the robots.txt strategy found: allowed paths
// turned into candidate URLs, plus any sitemap directives.
type robotsResult struct {
	urls     []string
	sitemaps []string
}

// fetchRobots pulls and parses {root}/robots.txt. Sitemap directives come
// from the parsed robots data; Allow paths are scanned from the raw lines
// because the parser only exposes the match API.
func (d *Discoverer) fetchRobots(ctx context.Context, root *url.URL) robotsResult {
	var result robotsResult

	robotsURL := root.Scheme + "://" + root.Host + "/robots.txt"
	page, err := d.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		d.logger.Debug().Str("url", robotsURL).Err(err).Msg("robots.txt fetch failed")
		return result
	}

	if data, err := robotstxt.FromBytes(page.Body); err == nil {
		for _, sm := range data.Sitemaps {
			u, err := url.Parse(strings.TrimSpace(sm))
			if err == nil && u.Host == root.Host {
				result.sitemaps = append(result.sitemaps, u.String())
			}
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(string(page.Body)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "allow:") {
			continue
		}
		path := strings.TrimSpace(line[len("allow:"):])
		if path == "" || path == "/" || strings.ContainsAny(path, "*$") {
			continue
		}
		if !strings.HasPrefix(path, "/") {
			continue
		}
		result.urls = append(result.urls, root.Scheme+"://"+root.Host+path)
	}
	return result
}
