// Package reporter renders combined documents for humans and for the
// text-completion collaborator.
package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amosWeiskopf/siteloom/internal/models"
	"github.com/amosWeiskopf/siteloom/pkg/utils"
)

// Completer is the text-completion collaborator: it consumes a serialized
// rendering of a combined document plus a user question.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Reporter handles document rendering in various formats
type Reporter struct{}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{}
}

// Render creates a rendering in the specified format.
func (r *Reporter) Render(doc *models.CombinedDocument, format string) (string, error) {
	switch format {
	case "json":
		return r.renderJSON(doc)
	case "markdown":
		return r.renderMarkdown(doc), nil
	case "text":
		return r.renderText(doc), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// BuildPrompt pairs the plain-text rendering with a user question for the
// completion collaborator.
func (r *Reporter) BuildPrompt(doc *models.CombinedDocument, question string) string {
	var b strings.Builder
	b.WriteString("You answer questions using only the website content below.\n\n")
	b.WriteString(r.renderText(doc))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func (r *Reporter) renderJSON(doc *models.CombinedDocument) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return string(data), nil
}

func (r *Reporter) renderMarkdown(doc *models.CombinedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDomain(doc))
	if doc.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.Description)
	}
	fmt.Fprintf(&b, "- Root URL: %s\n", doc.URL)
	fmt.Fprintf(&b, "- Pages scraped: %d\n", doc.TotalURLsScraped)
	fmt.Fprintf(&b, "- Internal links found: %d\n\n", doc.InternalLinksFound)

	if len(doc.Headings) > 0 {
		b.WriteString("## Headings\n\n")
		for _, h := range doc.Headings {
			fmt.Fprintf(&b, "- (%s) %s\n", h.Level, h.Text)
		}
		b.WriteString("\n")
	}
	if len(doc.Paragraphs) > 0 {
		b.WriteString("## Content\n\n")
		for _, p := range doc.Paragraphs {
			fmt.Fprintf(&b, "%s\n\n", p)
		}
	}
	if len(doc.AdditionalURLs) > 0 {
		b.WriteString("## Additional pages\n\n")
		for _, a := range doc.AdditionalURLs {
			fmt.Fprintf(&b, "- [%s](%s) via %s\n", a.Title, a.URL, a.Source)
		}
		b.WriteString("\n")
	}
	if doc.Theme != nil && doc.Theme.Extracted {
		b.WriteString("## Theme\n\n")
		writeColor(&b, "Primary", doc.Theme.Colors.Primary)
		writeColor(&b, "Secondary", doc.Theme.Colors.Secondary)
		writeColor(&b, "Accent", doc.Theme.Colors.Accent)
		writeColor(&b, "Background", doc.Theme.Colors.Background)
		writeColor(&b, "Text", doc.Theme.Colors.Text)
	}
	return b.String()
}

// renderText is the knowledge-base serialization: title, metadata and every
// content array flattened into plain text, bounded per item.
func (r *Reporter) renderText(doc *models.CombinedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Website: %s (%s)\n", orDomain(doc), doc.URL)
	if doc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", doc.Description)
	}
	if doc.Keywords != "" {
		fmt.Fprintf(&b, "Keywords: %s\n", doc.Keywords)
	}
	b.WriteString("\n")

	for _, h := range doc.Headings {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(h.Level), h.Text)
	}
	for _, p := range doc.Paragraphs {
		fmt.Fprintf(&b, "%s\n", utils.TruncateText(p, 2000))
	}
	for _, l := range doc.Lists {
		fmt.Fprintf(&b, "List (%s): %s\n", l.Kind, strings.Join(l.Items, "; "))
	}
	for _, t := range doc.Tables {
		if len(t.Headers) > 0 {
			fmt.Fprintf(&b, "Table: %s\n", strings.Join(t.Headers, " | "))
		}
		for _, row := range t.Rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, c.Text)
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(cells, " | "))
		}
	}
	for _, a := range doc.Articles {
		fmt.Fprintf(&b, "Article %q: %s\n", a.Title, utils.TruncateText(a.Content, 2000))
	}
	if doc.Text != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Text)
	}
	return b.String()
}

func orDomain(doc *models.CombinedDocument) string {
	if doc.Title != "" {
		return doc.Title
	}
	return doc.Domain
}

func writeColor(b *strings.Builder, label string, hex *string) {
	if hex != nil {
		fmt.Fprintf(b, "- %s: `%s`\n", label, *hex)
	}
}
