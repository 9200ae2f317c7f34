package theme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type rgb struct {
	r, g, b int
}

var (
	hexRe      = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	hex6Re     = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	rgbFuncRe  = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
	rejectVals = map[string]bool{
		"#ffffff": true, "#000000": true, "white": true, "black": true,
		"transparent": true, "inherit": true, "initial": true, "none": true,
	}
)

// parseColor turns a CSS color value into an rgb triple. Returns false for
// named colors, gradients and anything else it does not understand.
func parseColor(value string) (rgb, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if rejectVals[value] {
		return rgb{}, false
	}
	if m := hexRe.FindString(value); m != "" {
		return parseHex(m)
	}
	if m := rgbFuncRe.FindStringSubmatch(value); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return rgb{}, false
		}
		return rgb{r, g, b}, true
	}
	return rgb{}, false
}

func parseHex(hex string) (rgb, bool) {
	hex = strings.TrimPrefix(strings.ToLower(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}

// hexString renders the normalized 6-digit lowercase form.
func (c rgb) hexString() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// luma is the perceptual brightness 0.299R+0.587G+0.114B.
func (c rgb) luma() float64 {
	return 0.299*float64(c.r) + 0.587*float64(c.g) + 0.114*float64(c.b)
}

func (c rgb) maxChannel() int {
	m := c.r
	if c.g > m {
		m = c.g
	}
	if c.b > m {
		m = c.b
	}
	return m
}

func (c rgb) minChannel() int {
	m := c.r
	if c.g < m {
		m = c.g
	}
	if c.b < m {
		m = c.b
	}
	return m
}

// vibrance is a saturation score on 0-100, discounted for colors so bright or
// dark that they read as washed out rather than branded.
func (c rgb) vibrance() float64 {
	max := c.maxChannel()
	if max == 0 {
		return 0
	}
	sat := float64(max-c.minChannel()) / float64(max) * 100
	switch b := c.luma(); {
	case b > 220:
		sat *= 0.5
	case b < 40:
		sat *= 0.6
	}
	return sat
}

// isValidBrandColor rejects near-white, near-black, near-grayscale and
// washed-out candidates.
func isValidBrandColor(c rgb) bool {
	if b := c.luma(); b > 240 || b < 20 {
		return false
	}
	if c.maxChannel()-c.minChannel() < 15 {
		return false
	}
	return c.vibrance() >= 15
}
