package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var spaceRe = regexp.MustCompile(`\s+`)

// CleanText removes extra whitespace and normalizes text
func CleanText(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// TruncateText truncates text to a maximum length, preserving word boundaries
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	truncated := text[:maxLength]
	lastSpace := strings.LastIndex(truncated, " ")

	if lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// NormalizeURL normalizes a URL for consistent comparison
func NormalizeURL(url string) string {
	// Remove fragment
	if idx := strings.Index(url, "#"); idx > 0 {
		url = url[:idx]
	}

	// Remove trailing slash
	url = strings.TrimSuffix(url, "/")

	// Convert the domain part to lowercase
	if idx := strings.Index(url, "://"); idx > 0 {
		protocol := url[:idx+3]
		rest := url[idx+3:]

		if slashIdx := strings.Index(rest, "/"); slashIdx > 0 {
			domain := strings.ToLower(rest[:slashIdx])
			path := rest[slashIdx:]
			url = protocol + domain + path
		} else {
			url = protocol + strings.ToLower(rest)
		}
	}

	return url
}

// GetDomainFromURL extracts the host from a URL
func GetDomainFromURL(url string) string {
	// Remove protocol
	if idx := strings.Index(url, "://"); idx > 0 {
		url = url[idx+3:]
	}

	// Remove path
	if idx := strings.Index(url, "/"); idx > 0 {
		url = url[:idx]
	}

	return strings.ToLower(url)
}

// SanitizeFilename removes invalid characters from a filename
func SanitizeFilename(filename string) string {
	invalid := regexp.MustCompile(`[<>:"/\\|?*]`)
	filename = invalid.ReplaceAllString(filename, "_")

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, filename)

	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}

	return cleaned
}
