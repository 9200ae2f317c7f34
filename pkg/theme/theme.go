// Package theme mines a best-guess visual brand theme out of raw markup.
// It is heuristic by design: every field of the result is individually
// nullable and nothing is ever invented when no signal is found.
package theme

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amosWeiskopf/siteloom/internal/models"
)

const (
	maxCandidates     = 15
	primaryVibrance   = 50
	secondaryVibrance = 30
)

// observation is one weighted color sighting reported by a signal source.
type observation struct {
	color  rgb
	weight int
}

// signalSource yields weighted color observations from the markup. All
// sources feed one frequency table; ranking is the single authority on
// which colors win palette slots.
type signalSource func(markup string, doc *goquery.Document) []observation

var declRe = regexp.MustCompile(`(?i)(?:color|background(?:-color)?|border(?:-color)?)\s*:\s*([^;"'}\n]+)`)

// declarationSource reads CSS color/background/border declarations, weight 1.
func declarationSource(markup string, _ *goquery.Document) []observation {
	var obs []observation
	for _, m := range declRe.FindAllStringSubmatch(markup, -1) {
		if c, ok := parseColor(m[1]); ok {
			obs = append(obs, observation{color: c, weight: 1})
		}
	}
	return obs
}

// hexLiteralSource reads 6-digit hex literals anywhere in the markup,
// weight 2: full-fidelity declarations outrank shorthand.
func hexLiteralSource(markup string, _ *goquery.Document) []observation {
	var obs []observation
	for _, m := range hex6Re.FindAllString(markup, -1) {
		if c, ok := parseHex(m); ok {
			obs = append(obs, observation{color: c, weight: 2})
		}
	}
	return obs
}

// rgbSource reads rgb()/rgba() triples, weight 1.
func rgbSource(markup string, _ *goquery.Document) []observation {
	var obs []observation
	for _, m := range rgbFuncRe.FindAllStringSubmatch(markup, -1) {
		if c, ok := parseColor(m[0] + ")"); ok {
			obs = append(obs, observation{color: c, weight: 1})
		}
	}
	return obs
}

// elementImportanceSource samples inline styles on structurally prominent
// elements. It adds robustness on sparse markup; frequency ranking still
// decides the final palette.
func elementImportanceSource(_ string, doc *goquery.Document) []observation {
	var obs []observation
	doc.Find("header, nav, button, a, [class*='btn'], [class*='brand']").Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		if !ok {
			return
		}
		for _, m := range declRe.FindAllStringSubmatch(style, -1) {
			if c, ok := parseColor(m[1]); ok {
				obs = append(obs, observation{color: c, weight: 1})
			}
		}
	})
	return obs
}

// Extractor derives ThemeRecords from raw markup.
type Extractor struct {
	sources []signalSource
}

// New creates a theme Extractor with the standard signal sources.
func New() *Extractor {
	return &Extractor{
		sources: []signalSource{
			declarationSource,
			hexLiteralSource,
			rgbSource,
			elementImportanceSource,
		},
	}
}

// Extract mines the markup for a brand palette plus typography, layout and
// branding facts. An all-nil palette with Extracted=false is a valid result.
func (e *Extractor) Extract(rawMarkup []byte) *models.ThemeRecord {
	rec := &models.ThemeRecord{Timestamp: time.Now().UTC()}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawMarkup))
	if err != nil {
		return rec
	}
	markup := string(rawMarkup)

	rec.Colors = e.assignColors(e.rankCandidates(markup, doc))
	e.pageColors(doc, &rec.Colors)
	rec.Typography = extractTypography(doc)
	rec.Layout = extractLayout(doc)
	rec.Branding = extractBranding(doc)

	rec.Extracted = rec.Colors.Primary != nil || rec.Colors.Secondary != nil ||
		rec.Colors.Background != nil || rec.Colors.Text != nil || rec.Colors.Border != nil
	return rec
}

type candidate struct {
	color rgb
	freq  int
	vib   float64
}

// rankCandidates merges every source's observations into one frequency table
// and returns the top candidates sorted by (frequency desc, vibrance desc).
func (e *Extractor) rankCandidates(markup string, doc *goquery.Document) []candidate {
	freq := make(map[string]*candidate)
	for _, source := range e.sources {
		for _, ob := range source(markup, doc) {
			key := ob.color.hexString()
			if c, ok := freq[key]; ok {
				c.freq += ob.weight
			} else {
				freq[key] = &candidate{color: ob.color, freq: ob.weight, vib: ob.color.vibrance()}
			}
		}
	}

	candidates := make([]candidate, 0, len(freq))
	for _, c := range freq {
		candidates = append(candidates, *c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		if candidates[i].vib != candidates[j].vib {
			return candidates[i].vib > candidates[j].vib
		}
		return candidates[i].color.hexString() < candidates[j].color.hexString()
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// assignColors picks the palette from ranked candidates. Accent, button and
// link alias primary when no independent slot was assigned: frequency rank
// is the final authority.
func (e *Extractor) assignColors(candidates []candidate) models.ThemeColors {
	var colors models.ThemeColors
	for _, c := range candidates {
		if !isValidBrandColor(c.color) {
			continue
		}
		hex := c.color.hexString()
		switch {
		case colors.Primary == nil && c.vib > primaryVibrance:
			colors.Primary = &hex
		case colors.Primary != nil && colors.Secondary == nil && hex != *colors.Primary && c.vib > secondaryVibrance:
			colors.Secondary = &hex
		}
		if colors.Primary != nil && colors.Secondary != nil {
			break
		}
	}
	if colors.Primary != nil {
		colors.Accent = colors.Primary
		colors.Button = colors.Primary
		colors.Link = colors.Primary
	}
	return colors
}

// pageColors fills background, text and border from direct declarations,
// independent of the brand ranking. Best-effort, each slot nullable.
func (e *Extractor) pageColors(doc *goquery.Document, colors *models.ThemeColors) {
	if style, ok := doc.Find("body").Attr("style"); ok {
		for _, m := range declRe.FindAllStringSubmatch(style, -1) {
			prop := strings.ToLower(strings.TrimSpace(strings.SplitN(m[0], ":", 2)[0]))
			c, ok := parseColor(m[1])
			if !ok {
				continue
			}
			hex := c.hexString()
			switch {
			case strings.HasPrefix(prop, "background") && colors.Background == nil:
				colors.Background = &hex
			case prop == "color" && colors.Text == nil:
				colors.Text = &hex
			case strings.HasPrefix(prop, "border") && colors.Border == nil:
				colors.Border = &hex
			}
		}
	}
	if colors.Border == nil {
		borderRe := regexp.MustCompile(`(?i)border(?:-color)?\s*:\s*([^;"'}\n]+)`)
		doc.Find("[style*='border']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			style, _ := s.Attr("style")
			if m := borderRe.FindStringSubmatch(style); m != nil {
				if c, ok := parseColor(m[1]); ok {
					hex := c.hexString()
					colors.Border = &hex
					return false
				}
			}
			return true
		})
	}
}

var fontFamilyRe = regexp.MustCompile(`(?i)font-family\s*:\s*([^;"'}\n]+)`)

func extractTypography(doc *goquery.Document) models.Typography {
	var t models.Typography
	if style, ok := doc.Find("body").Attr("style"); ok {
		if m := fontFamilyRe.FindStringSubmatch(style); m != nil {
			f := strings.TrimSpace(m[1])
			t.BodyFont = &f
		}
	}
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, ok := s.Attr("style")
		if !ok {
			return true
		}
		if m := fontFamilyRe.FindStringSubmatch(style); m != nil {
			f := strings.TrimSpace(m[1])
			t.HeadingFont = &f
			return false
		}
		return true
	})
	if t.BodyFont == nil {
		doc.Find("link[href*='fonts.googleapis.com']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if f := googleFontFamily(href); f != "" {
				t.BodyFont = &f
				return false
			}
			return true
		})
	}
	return t
}

// googleFontFamily pulls the first family name out of a Google Fonts href.
func googleFontFamily(href string) string {
	idx := strings.Index(href, "family=")
	if idx < 0 {
		return ""
	}
	family := href[idx+len("family="):]
	for _, sep := range []string{"&", ":", "|"} {
		if i := strings.Index(family, sep); i >= 0 {
			family = family[:i]
		}
	}
	return strings.ReplaceAll(family, "+", " ")
}

var (
	borderRadiusRe = regexp.MustCompile(`(?i)border-radius\s*:\s*([^;"'}\n]+)`)
	boxShadowRe    = regexp.MustCompile(`(?i)box-shadow\s*:\s*([^;"'}\n]+)`)
)

func extractLayout(doc *goquery.Document) models.Layout {
	var l models.Layout
	doc.Find("button, a, input, [class*='btn'], [class*='card']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, ok := s.Attr("style")
		if !ok {
			return true
		}
		if l.BorderRadius == nil {
			if m := borderRadiusRe.FindStringSubmatch(style); m != nil {
				v := strings.TrimSpace(m[1])
				l.BorderRadius = &v
			}
		}
		if l.BoxShadow == nil {
			if m := boxShadowRe.FindStringSubmatch(style); m != nil {
				v := strings.TrimSpace(m[1])
				l.BoxShadow = &v
			}
		}
		return l.BorderRadius == nil || l.BoxShadow == nil
	})
	return l
}

func extractBranding(doc *goquery.Document) models.Branding {
	var b models.Branding
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		alt, _ := s.Attr("alt")
		class, _ := s.Attr("class")
		if strings.Contains(strings.ToLower(alt), "logo") || strings.Contains(strings.ToLower(class), "logo") {
			if src, ok := s.Attr("src"); ok && src != "" {
				b.LogoURL = &src
				return false
			}
		}
		return true
	})
	doc.Find("link[rel*='icon']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok && href != "" {
			b.FaviconURL = &href
			return false
		}
		return true
	})
	if name, ok := doc.Find("meta[property='og:site_name']").Attr("content"); ok && name != "" {
		b.BrandName = &name
	}
	return b
}
