// Package notify delivers end-of-session summaries. A notifier failure must
// never fail the crawl; callers go through Send, which swallows errors.
package notify

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/amosWeiskopf/siteloom/internal/models"
)

// SuccessSummary describes a completed session.
type SuccessSummary struct {
	RootURL          string              `json:"root_url"`
	Title            string              `json:"title"`
	TotalURLsScraped int                 `json:"total_urls_scraped"`
	ContentCounts    map[string]int      `json:"content_counts"`
	Theme            *models.ThemeRecord `json:"theme,omitempty"`
}

// FailureSummary describes a failed session.
type FailureSummary struct {
	URL       string    `json:"url"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives exactly one summary per session.
type Notifier interface {
	NotifySuccess(s SuccessSummary) error
	NotifyFailure(s FailureSummary) error
}

// Summarize builds the success payload from a combined document.
func Summarize(doc *models.CombinedDocument) SuccessSummary {
	return SuccessSummary{
		RootURL:          doc.URL,
		Title:            doc.Title,
		TotalURLsScraped: doc.TotalURLsScraped,
		ContentCounts: map[string]int{
			"headings":   len(doc.Headings),
			"paragraphs": len(doc.Paragraphs),
			"lists":      len(doc.Lists),
			"tables":     len(doc.Tables),
			"links":      len(doc.Links),
			"forms":      len(doc.Forms),
			"articles":   len(doc.Articles),
			"sections":   len(doc.Sections),
			"spans":      len(doc.Spans),
		},
		Theme: doc.Theme,
	}
}

// Send invokes the notifier and logs instead of propagating any error.
func Send(n Notifier, logger zerolog.Logger, doc *models.CombinedDocument, crawlErr error, rootURL string) {
	if n == nil {
		return
	}
	var err error
	if crawlErr != nil {
		err = n.NotifyFailure(FailureSummary{
			URL:       rootURL,
			Error:     crawlErr.Error(),
			Timestamp: time.Now().UTC(),
		})
	} else {
		err = n.NotifySuccess(Summarize(doc))
	}
	if err != nil {
		logger.Warn().Err(err).Msg("notifier failed")
	}
}

// LogNotifier writes summaries to the structured log. It stands in for the
// email notifier in local and test runs.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (l LogNotifier) NotifySuccess(s SuccessSummary) error {
	l.Logger.Info().
		Str("root_url", s.RootURL).
		Str("title", s.Title).
		Int("total_urls", s.TotalURLsScraped).
		Interface("content_counts", s.ContentCounts).
		Msg("crawl succeeded")
	return nil
}

func (l LogNotifier) NotifyFailure(s FailureSummary) error {
	l.Logger.Error().
		Str("url", s.URL).
		Str("error", s.Error).
		Time("at", s.Timestamp).
		Msg("crawl failed")
	return nil
}
