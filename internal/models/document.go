package models

import "time"

// Discovery sources, recorded as provenance on every additional URL.
const (
	SourceSitemap       = "sitemap.xml"
	SourceRobots        = "robots.txt"
	SourceInternalLinks = "internal links"
)

// ScrapingMethod tags documents produced by this engine.
const ScrapingMethod = "multi-source-crawl"

// DiscoveredURL is a candidate same-host URL produced by one discovery
// strategy, consumed by the orchestrator before any fetch attempt.
type DiscoveredURL struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// AdditionalURL records one successfully merged extra page.
type AdditionalURL struct {
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// CombinedDocument is the output of one crawl session: the root page's record
// with content arrays extended by every merged additional page.
//
// Invariants: TotalURLsScraped == 1 + len(AdditionalURLs); AdditionalURLs never
// contains the root URL or duplicates; every additional URL is same-host as
// the root.
type CombinedDocument struct {
	PageRecord

	Domain              string          `json:"domain"`
	AdditionalURLs      []AdditionalURL `json:"additional_urls"`
	TotalURLsScraped    int             `json:"total_urls_scraped"`
	InternalLinksFound  int             `json:"internal_links_found"`
	StoredInternalLinks []string        `json:"stored_internal_links"`
	Theme               *ThemeRecord    `json:"theme,omitempty"`
	ScrapingMethod      string          `json:"scraping_method"`
	CrawledAt           time.Time       `json:"crawled_at"`
}
