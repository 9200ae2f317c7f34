package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{name: "six digit hex", value: "#E50914", want: "#e50914", ok: true},
		{name: "three digit hex expands", value: "#e50", want: "#ee5500", ok: true},
		{name: "rgb triple", value: "rgb(229, 9, 20)", want: "#e50914", ok: true},
		{name: "rgba triple", value: "rgba(34, 31, 31, 0.8)", want: "#221f1f", ok: true},
		{name: "white literal", value: "white", ok: false},
		{name: "transparent", value: "transparent", ok: false},
		{name: "inherit", value: "inherit", ok: false},
		{name: "named color", value: "rebeccapurple", ok: false},
		{name: "out of range rgb", value: "rgb(300, 0, 0)", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := parseColor(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, c.hexString())
			}
		})
	}
}

func TestIsValidBrandColor(t *testing.T) {
	tests := []struct {
		hex   string
		valid bool
	}{
		{hex: "#ffffff", valid: false}, // pure white
		{hex: "#000000", valid: false}, // pure black
		{hex: "#333333", valid: false}, // grayscale
		{hex: "#fdfdfd", valid: false}, // brightness > 240
		{hex: "#0a0a0a", valid: false}, // brightness < 20
		{hex: "#e50914", valid: true},  // saturated brand red
		{hex: "#1a73e8", valid: true},  // saturated brand blue
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, ok := parseHex(tt.hex)
			require.True(t, ok)
			assert.Equal(t, tt.valid, isValidBrandColor(c))
		})
	}
}

func TestVibrancePenalizesExtremes(t *testing.T) {
	saturated, _ := parseHex("#e50914")
	nearWhite, _ := parseHex("#fef0f0")

	assert.Greater(t, saturated.vibrance(), 50.0)
	assert.Less(t, nearWhite.vibrance(), saturated.vibrance())
}

func TestExtractFrequencyRanking(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		b.WriteString(`<div style="background-color:#e50914">x</div>`)
	}
	for i := 0; i < 3; i++ {
		b.WriteString(`<div style="color:#221f1f">x</div>`)
	}
	b.WriteString("</body></html>")

	rec := New().Extract([]byte(b.String()))

	require.NotNil(t, rec.Colors.Primary)
	assert.Equal(t, "#e50914", *rec.Colors.Primary)
	assert.True(t, rec.Extracted)

	// accent, button and link alias primary when unset
	require.NotNil(t, rec.Colors.Accent)
	assert.Equal(t, "#e50914", *rec.Colors.Accent)
	assert.Equal(t, "#e50914", *rec.Colors.Button)
	assert.Equal(t, "#e50914", *rec.Colors.Link)

	// #221f1f is near-grayscale and never wins a slot
	assert.Nil(t, rec.Colors.Secondary)
}

func TestExtractSecondaryColor(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 6; i++ {
		b.WriteString(`<div style="background-color:#e50914">x</div>`)
	}
	for i := 0; i < 3; i++ {
		b.WriteString(`<div style="color:#1a73e8">x</div>`)
	}
	b.WriteString("</body></html>")

	rec := New().Extract([]byte(b.String()))

	require.NotNil(t, rec.Colors.Primary)
	require.NotNil(t, rec.Colors.Secondary)
	assert.Equal(t, "#e50914", *rec.Colors.Primary)
	assert.Equal(t, "#1a73e8", *rec.Colors.Secondary)
}

func TestExtractNoVibrantColors(t *testing.T) {
	markup := `<html><body style="background:#ffffff; color:#000000">
		<div style="color:#333333">gray on gray</div>
	</body></html>`

	rec := New().Extract([]byte(markup))

	assert.Nil(t, rec.Colors.Primary)
	assert.Nil(t, rec.Colors.Secondary)
	assert.Nil(t, rec.Colors.Accent)
	assert.Nil(t, rec.Colors.Button)
	assert.Nil(t, rec.Colors.Link)
	assert.False(t, rec.Extracted)
}

func TestExtractRGBDeclarations(t *testing.T) {
	markup := strings.Repeat(`<span style="color: rgb(229, 9, 20)">r</span>`, 5)

	rec := New().Extract([]byte("<html><body>" + markup + "</body></html>"))

	require.NotNil(t, rec.Colors.Primary)
	assert.Equal(t, "#e50914", *rec.Colors.Primary, "rgb() values normalize to lowercase hex")
}

func TestExtractTypographyLayoutBranding(t *testing.T) {
	markup := `<html><head>
		<meta property="og:site_name" content="Acme">
		<link rel="shortcut icon" href="/favicon.ico">
		<link href="https://fonts.googleapis.com/css2?family=Roboto+Slab:wght@400&display=swap" rel="stylesheet">
	</head>
	<body>
		<img class="site-logo" src="/img/logo.svg" alt="Acme logo">
		<h1 style="font-family: Oswald, sans-serif">Acme</h1>
		<button style="border-radius: 8px; box-shadow: 0 1px 2px #00000044; background:#e50914">Buy</button>
	</body></html>`

	rec := New().Extract([]byte(markup))

	require.NotNil(t, rec.Typography.BodyFont)
	assert.Equal(t, "Roboto Slab", *rec.Typography.BodyFont)
	require.NotNil(t, rec.Typography.HeadingFont)
	assert.Equal(t, "Oswald, sans-serif", *rec.Typography.HeadingFont)

	require.NotNil(t, rec.Layout.BorderRadius)
	assert.Equal(t, "8px", *rec.Layout.BorderRadius)
	require.NotNil(t, rec.Layout.BoxShadow)

	require.NotNil(t, rec.Branding.LogoURL)
	assert.Equal(t, "/img/logo.svg", *rec.Branding.LogoURL)
	require.NotNil(t, rec.Branding.FaviconURL)
	assert.Equal(t, "/favicon.ico", *rec.Branding.FaviconURL)
	require.NotNil(t, rec.Branding.BrandName)
	assert.Equal(t, "Acme", *rec.Branding.BrandName)
}

func TestExtractBodyPageColors(t *testing.T) {
	markup := `<html><body style="background-color:#101820; color:#f0f0f0">
		<div style="background:#e50914">x</div><div style="background:#e50914">x</div>
		<div style="background:#e50914">x</div><div style="background:#e50914">x</div>
	</body></html>`

	rec := New().Extract([]byte(markup))

	require.NotNil(t, rec.Colors.Background)
	assert.Equal(t, "#101820", *rec.Colors.Background)
	require.NotNil(t, rec.Colors.Text)
	assert.Equal(t, "#f0f0f0", *rec.Colors.Text)
}

func TestExtractUnparseableMarkup(t *testing.T) {
	rec := New().Extract([]byte("not really <html at all"))
	assert.NotNil(t, rec)
	assert.False(t, rec.Extracted)
}
