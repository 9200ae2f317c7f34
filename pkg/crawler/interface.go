package crawler

import (
	"context"

	"github.com/amosWeiskopf/siteloom/internal/models"
)

// Engine is the crawl-session contract consumed by the outer service layer.
type Engine interface {
	// Run executes one session for rootURL and returns the combined
	// document, or an error when the root page cannot be fetched or parsed.
	Run(ctx context.Context, rootURL string) (*models.CombinedDocument, error)
}

var _ Engine = (*Crawler)(nil)
