package helpers

import (
	"html"
	"regexp"
	"strings"
)

var (
	// HTML tag patterns
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// StripHTML removes HTML tags from a string and decodes HTML entities.
// Zotero keeps rich-text titles (<i>, <sup>) as markup in its exports.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return NormalizeWhitespace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// CleanText strips markup when present and collapses whitespace.
func CleanText(s string) string {
	if IsHTML(s) || strings.Contains(s, "&") {
		return StripHTML(s)
	}
	return NormalizeWhitespace(s)
}

// TruncateText truncates text to at most maxLen runes, adding an ellipsis if needed.
func TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	// Try to truncate at a word boundary
	truncated := string(runes[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// NormalizeWhitespace normalizes all whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}
