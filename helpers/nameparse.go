// Package helpers provides name, role and text normalization utilities.
package helpers

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameSeparator separates multiple contributors inside one field.
const NameSeparator = ";"

// DisplaySeparator joins normalized names for display.
const DisplaySeparator = "; "

// NormalizeName converts "Last, First" into "First Last".
//
// The name is split on the first comma only. Everything after it is the
// first-name field, so "Last, First, Jr." becomes "First, Jr. Last".
// Names without a comma are returned trimmed and otherwise unchanged.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)

	return strings.TrimSpace(first + " " + last)
}

// SplitNames splits a multi-contributor field on ";".
// Segments are trimmed and empty segments dropped; order is preserved.
func SplitNames(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var result []string
	for _, p := range strings.Split(field, NameSeparator) {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// NormalizeNames splits a multi-contributor field and normalizes each name.
func NormalizeNames(field string) []string {
	names := SplitNames(field)
	for i, n := range names {
		names[i] = NormalizeName(n)
	}
	return names
}

// FormatNames returns the display form of a multi-contributor field.
func FormatNames(field string) string {
	return strings.Join(NormalizeNames(field), DisplaySeparator)
}

// FoldTurkish lower-cases s with Turkish casing rules: "I" folds to "ı"
// and "İ" folds to "i". Use it for matching and sorting only.
func FoldTurkish(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// SortKey returns the ordering key of a raw contributor name.
func SortKey(raw string) string {
	return FoldTurkish(NormalizeName(raw))
}

// SortNames sorts raw contributor names in place by display form.
func SortNames(names []string) {
	c := collate.New(language.Turkish)
	slices.SortStableFunc(names, func(a, b string) int {
		return c.CompareString(SortKey(a), SortKey(b))
	})
}

func isSearchQuote(r rune) bool {
	switch r {
	case '\'', '‘', '’', '`', '′', 'ʿ', '"', '“', '”', '″':
		return true
	}
	return false
}

func searchRune(r rune) rune {
	switch r {
	case 'â':
		return 'a'
	case 'î':
		return 'i'
	case 'û':
		return 'u'
	case '-', ':', '/', '(', ')', '–', '.', '…':
		return ' '
	}
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// NormalizeSearchText folds s for free-text search: Turkish lower case,
// circumflexed vowels reduced, quotes dropped, punctuation separators and
// runs of whitespace collapsed to a single space.
func NormalizeSearchText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFC,
		cases.Lower(language.Turkish),
		runes.Remove(runes.Predicate(isSearchQuote)),
		runes.Map(searchRune),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = FoldTurkish(s)
	}
	return strings.Join(strings.Fields(out), " ")
}
