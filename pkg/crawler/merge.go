package crawler

import "github.com/amosWeiskopf/siteloom/internal/models"

// mergePage folds one additional page into the combined document. Arrays are
// concatenated in discovery order; scalar fields (title, description and the
// rest) come exclusively from the root page and are never overwritten.
func mergePage(doc *models.CombinedDocument, rec *models.PageRecord) {
	doc.Headings = append(doc.Headings, rec.Headings...)
	doc.Paragraphs = append(doc.Paragraphs, rec.Paragraphs...)
	doc.Lists = append(doc.Lists, rec.Lists...)
	doc.Tables = append(doc.Tables, rec.Tables...)
	doc.Links = append(doc.Links, rec.Links...)
	doc.Forms = append(doc.Forms, rec.Forms...)
	doc.Articles = append(doc.Articles, rec.Articles...)
	doc.Sections = append(doc.Sections, rec.Sections...)
	doc.Spans = append(doc.Spans, rec.Spans...)
	if rec.Text != "" {
		if doc.Text != "" {
			doc.Text += "\n\n"
		}
		doc.Text += rec.Text
	}
}
