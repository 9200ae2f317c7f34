package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/siteloom/internal/models"
	"github.com/amosWeiskopf/siteloom/pkg/utils"
)

const (
	minParagraphLen = 20
	maxParagraphs   = 100
)

// Classes and ids that mark non-content chrome, removed before extraction.
var noiseTokens = map[string]bool{
	"ad": true, "ads": true, "advert": true, "advertisement": true,
	"popup": true, "modal": true, "overlay": true, "cookie-banner": true,
}

// Extractor parses fetched markup into structured page records. It is
// stateless and deterministic: identical markup yields identical records.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses rawMarkup into a PageRecord. Extraction order follows
// document order throughout.
func (e *Extractor) Extract(rawMarkup []byte, pageURL string) (*models.PageRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawMarkup))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	stripNoise(doc)

	rec := &models.PageRecord{URL: pageURL}
	e.extractMeta(doc, rec)
	rec.Text = e.mainText(rawMarkup)
	rec.Headings = e.extractHeadings(doc)
	rec.Paragraphs = e.extractParagraphs(doc)
	rec.Lists = e.extractLists(doc)
	rec.Tables = e.extractTables(doc)
	rec.Links = e.extractLinks(doc, pageURL)
	rec.Forms = e.extractForms(doc)
	rec.Articles = e.extractArticles(doc)
	rec.Sections = e.extractSections(doc)
	rec.Spans = e.extractSpans(doc)
	return rec, nil
}

func stripNoise(doc *goquery.Document) {
	doc.Find("script, style, noscript").Remove()
	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		for _, token := range strings.Fields(class) {
			if noiseTokens[strings.ToLower(token)] {
				s.Remove()
				return
			}
		}
		if noiseTokens[strings.ToLower(id)] {
			s.Remove()
		}
	})
}

// mainText runs trafilatura over the raw markup for a readable main-content
// rendering; an empty string is fine when the page has no article body.
func (e *Extractor) mainText(rawMarkup []byte) string {
	result, err := trafilatura.Extract(bytes.NewReader(rawMarkup), trafilatura.Options{})
	if err != nil || result == nil {
		return ""
	}
	return utils.CleanText(result.ContentText)
}

func (e *Extractor) extractMeta(doc *goquery.Document, rec *models.PageRecord) {
	rec.Title = utils.CleanText(doc.Find("title").First().Text())
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		content = utils.CleanText(content)
		if content == "" {
			return
		}
		switch strings.ToLower(name) {
		case "description":
			if rec.Description == "" {
				rec.Description = content
			}
		case "keywords":
			if rec.Keywords == "" {
				rec.Keywords = content
			}
		case "author":
			if rec.Author == "" {
				rec.Author = content
			}
		}
	})
}

func (e *Extractor) extractHeadings(doc *goquery.Document) []models.Heading {
	var headings []models.Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := utils.CleanText(s.Text())
		if text == "" {
			return
		}
		id, _ := s.Attr("id")
		headings = append(headings, models.Heading{
			Level: goquery.NodeName(s),
			Text:  text,
			ID:    id,
		})
	})
	return headings
}

// extractParagraphs harvests text from block-content nodes: p and blockquote
// elements first, then container elements that carry text without any p of
// their own. Exact-string dedup and the item cap bound the overlap.
func (e *Extractor) extractParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	seen := make(map[string]bool)
	add := func(text string) {
		if len(paragraphs) >= maxParagraphs {
			return
		}
		text = utils.CleanText(text)
		if len(text) < minParagraphLen || seen[text] {
			return
		}
		seen[text] = true
		paragraphs = append(paragraphs, text)
	}

	doc.Find("p, blockquote").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	doc.Find("article, section, main, div[class*='content'], div[id*='content']").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p").Length() == 0 {
			add(s.Text())
		}
	})
	return paragraphs
}

func (e *Extractor) extractLists(doc *goquery.Document) []models.List {
	var lists []models.List
	doc.Find("ul, ol, dl").Each(func(_ int, s *goquery.Selection) {
		kind := goquery.NodeName(s)
		itemSel := "li"
		if kind == "dl" {
			itemSel = "dt, dd"
		}
		var items []string
		s.Find(itemSel).Each(func(_ int, li *goquery.Selection) {
			if text := utils.CleanText(li.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			lists = append(lists, models.List{Kind: kind, Items: items})
		}
	})
	return lists
}

func (e *Extractor) extractTables(doc *goquery.Document) []models.Table {
	var tables []models.Table
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		table := models.Table{}
		headerRow := s.Find("thead tr").First()
		if headerRow.Length() == 0 {
			first := s.Find("tr").First()
			if first.Find("th").Length() > 0 {
				headerRow = first
			}
		}
		headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			table.Headers = append(table.Headers, utils.CleanText(cell.Text()))
		})
		s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if headerRow.Length() > 0 && tr.Get(0) == headerRow.Get(0) {
				return
			}
			var row []models.Cell
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, models.Cell{
					Text:    utils.CleanText(cell.Text()),
					ColSpan: spanAttr(cell, "colspan"),
					RowSpan: spanAttr(cell, "rowspan"),
				})
			})
			if len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		})
		if len(table.Headers) > 0 || len(table.Rows) > 0 {
			tables = append(tables, table)
		}
	})

	// ARIA/div-based grids are scanned too, one table per grid.
	doc.Find("[role='table'], [role='grid']").Each(func(_ int, s *goquery.Selection) {
		table := models.Table{}
		s.Find("[role='row']").Each(func(_ int, tr *goquery.Selection) {
			headers := tr.Find("[role='columnheader']")
			if headers.Length() > 0 && table.Headers == nil {
				headers.Each(func(_ int, cell *goquery.Selection) {
					table.Headers = append(table.Headers, utils.CleanText(cell.Text()))
				})
				return
			}
			var row []models.Cell
			tr.Find("[role='cell'], [role='gridcell'], [role='rowheader']").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, models.Cell{Text: utils.CleanText(cell.Text())})
			})
			if len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		})
		if len(table.Headers) > 0 || len(table.Rows) > 0 {
			tables = append(tables, table)
		}
	})
	return tables
}

func spanAttr(s *goquery.Selection, key string) int {
	if len(s.Nodes) == 0 {
		return 0
	}
	if v := nodeAttr(s.Nodes[0], key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			return n
		}
	}
	return 0
}

func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func (e *Extractor) extractLinks(doc *goquery.Document, pageURL string) []models.Link {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	var links []models.Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := ref
		if base != nil {
			abs = base.ResolveReference(ref)
		}
		text := utils.CleanText(s.Text())
		if text == "" {
			text = abs.String()
		}
		title, _ := s.Attr("title")
		links = append(links, models.Link{URL: abs.String(), Text: text, Title: title})
	})
	return links
}

func (e *Extractor) extractForms(doc *goquery.Document) []models.Form {
	var forms []models.Form
	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		action, _ := s.Attr("action")
		method, _ := s.Attr("method")
		if method == "" {
			method = "get"
		}
		form := models.Form{Action: action, Method: strings.ToLower(method)}
		s.Find("input, textarea, select, button").Each(func(_ int, f *goquery.Selection) {
			field := models.FormField{Type: goquery.NodeName(f)}
			if field.Type == "input" {
				if t, ok := f.Attr("type"); ok {
					field.Type = t
				} else {
					field.Type = "text"
				}
			}
			field.Name, _ = f.Attr("name")
			field.Placeholder, _ = f.Attr("placeholder")
			if v, ok := f.Attr("value"); ok {
				field.Value = v
			} else if goquery.NodeName(f) == "button" {
				field.Value = utils.CleanText(f.Text())
			}
			form.Fields = append(form.Fields, field)
		})
		forms = append(forms, form)
	})
	return forms
}

func (e *Extractor) extractArticles(doc *goquery.Document) []models.Article {
	var articles []models.Article
	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		content := utils.CleanText(s.Text())
		if content == "" {
			return
		}
		title := utils.CleanText(s.Find("h1, h2, h3, h4, h5, h6").First().Text())
		if title == "" {
			title = fmt.Sprintf("Article %d", i+1)
		}
		articles = append(articles, models.Article{Title: title, Content: content})
	})
	return articles
}

func (e *Extractor) extractSections(doc *goquery.Document) []models.Section {
	var sections []models.Section
	doc.Find("section").Each(func(i int, s *goquery.Selection) {
		content := utils.CleanText(s.Text())
		if content == "" {
			return
		}
		heading := utils.CleanText(s.Find("h1, h2, h3, h4, h5, h6").First().Text())
		if heading == "" {
			heading = fmt.Sprintf("Section %d", i+1)
		}
		sections = append(sections, models.Section{Heading: heading, Content: content})
	})
	return sections
}

func (e *Extractor) extractSpans(doc *goquery.Document) []models.Span {
	var spans []models.Span
	doc.Find("span, em, strong, b, i, code, mark").Each(func(_ int, s *goquery.Selection) {
		content := utils.CleanText(s.Text())
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if content == "" && class == "" && id == "" {
			return
		}
		spans = append(spans, models.Span{
			Content:   content,
			ClassName: class,
			ID:        id,
			Tag:       goquery.NodeName(s),
		})
	})
	return spans
}
