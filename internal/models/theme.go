package models

import "time"

// ThemeRecord is the best-guess visual brand theme mined from the root page.
// Every field is best-effort; an all-nil palette with Extracted=false is a
// valid result for sites with no detectable brand color.
type ThemeRecord struct {
	Colors     ThemeColors `json:"colors"`
	Typography Typography  `json:"typography"`
	Layout     Layout      `json:"layout"`
	Branding   Branding    `json:"branding"`
	Extracted  bool        `json:"extracted"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ThemeColors holds the derived palette. Entries are nil when no candidate
// survived the validity filter; nothing is ever invented here.
type ThemeColors struct {
	Primary    *string `json:"primary"`
	Secondary  *string `json:"secondary"`
	Accent     *string `json:"accent"`
	Background *string `json:"background"`
	Text       *string `json:"text"`
	Border     *string `json:"border"`
	Button     *string `json:"button"`
	Link       *string `json:"link"`
}

// Typography holds font-family hints.
type Typography struct {
	BodyFont    *string `json:"body_font"`
	HeadingFont *string `json:"heading_font"`
}

// Layout holds sampled layout facts from interactive elements.
type Layout struct {
	BorderRadius *string `json:"border_radius"`
	BoxShadow    *string `json:"box_shadow"`
}

// Branding holds logo, favicon and site-name hints.
type Branding struct {
	LogoURL    *string `json:"logo_url"`
	FaviconURL *string `json:"favicon_url"`
	BrandName  *string `json:"brand_name"`
}
