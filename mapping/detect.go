package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// suggestions maps normalized header names to record fields. English names
// come from common reference-manager exports, Turkish ones from library
// catalog exports.
var suggestions = map[string]string{
	"title":            FieldTitle,
	"başlık":           FieldTitle,
	"baslik":           FieldTitle,
	"eser adı":         FieldTitle,
	"item type":        FieldItemType,
	"type":             FieldItemType,
	"document type":    FieldItemType,
	"tür":              FieldItemType,
	"yayın türü":       FieldItemType,
	"archive location": FieldArchiveLocation,
	"archive":          FieldArchiveLocation,
	"arşiv":            FieldArchiveLocation,
	"arşiv konumu":     FieldArchiveLocation,
	"author":           FieldAuthor,
	"authors":          FieldAuthor,
	"creator":          FieldAuthor,
	"yazar":            FieldAuthor,
	"yazarlar":         FieldAuthor,
	"editor":           FieldEditor,
	"editors":          FieldEditor,
	"editör":           FieldEditor,
	"translator":       FieldTranslator,
	"translators":      FieldTranslator,
	"çevirmen":         FieldTranslator,
	"publication year": FieldPublicationYear,
	"year":             FieldPublicationYear,
	"pub year":         FieldPublicationYear,
	"yıl":              FieldPublicationYear,
	"yayın yılı":       FieldPublicationYear,
	"publisher":        FieldPublisher,
	"yayınevi":         FieldPublisher,
	"yayıncı":          FieldPublisher,
	"language":         FieldLanguage,
	"lang":             FieldLanguage,
	"dil":              FieldLanguage,
}

// partialKeys are the suggestion keys tried as substrings, longest first.
// Short keys like "year" or "dil" are left out; they match too much.
var partialKeys = func() []string {
	keys := make([]string, 0, len(suggestions))
	for k := range suggestions {
		if utf8.RuneCountInString(k) >= 5 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

func normalizeHeader(column string) string {
	col := strings.ToLower(strings.TrimSpace(column))
	col = strings.ReplaceAll(col, "_", " ")
	col = strings.ReplaceAll(col, "-", " ")
	return strings.Join(strings.Fields(col), " ")
}

// SuggestField returns the record field a header most likely holds.
// exact reports whether the header matched a known name rather than a
// substring of one.
func SuggestField(column string) (field string, exact bool) {
	col := normalizeHeader(column)
	if col == "" {
		return "", false
	}
	if f, ok := suggestions[col]; ok {
		return f, true
	}
	for _, key := range partialKeys {
		if strings.Contains(col, key) {
			return suggestions[key], false
		}
	}
	return "", false
}

// FromColumns creates a profile with suggested mappings for a header row.
// Exact suggestions outrank substring ones so "Publisher" beats
// "Publisher Place" when both are filled.
func FromColumns(name string, columns []string) *Profile {
	profile := &Profile{
		Name:        name,
		Description: "Auto-generated profile",
		Columns:     make(map[string]ColumnMapping),
	}

	for _, col := range columns {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		field, exact := SuggestField(col)
		if field == "" {
			continue
		}
		m := ColumnMapping{Field: field}
		if exact {
			m.Priority = 10
		}
		profile.Columns[col] = m
		if field == FieldItemType {
			profile.Options.RequireType = true
		}
	}

	return profile
}

// CoveredFields returns the record fields a header row provides under p,
// in export order.
func (p *Profile) CoveredFields(header []string) []string {
	seen := make(map[string]bool)
	for _, h := range header {
		if m, ok := p.ColumnFor(strings.TrimPrefix(h, "\ufeff")); ok {
			seen[m.Field] = true
		}
	}
	var out []string
	for _, f := range Fields {
		if seen[f] {
			out = append(out, f)
		}
	}
	return out
}

// Score returns the share of the profile's fields a header row provides.
func (p *Profile) Score(header []string) float64 {
	fields := make(map[string]bool)
	for _, m := range p.Columns {
		fields[m.Field] = true
	}
	if len(fields) == 0 {
		return 0
	}
	return float64(len(p.CoveredFields(header))) / float64(len(fields))
}

// Detect returns the registered profile that best fits a header row, or
// nil when no profile covers more than half of its fields. Ties go to the
// default profile, then to the first name in sorted order.
func (r *ProfileRegistry) Detect(header []string) (*Profile, float64) {
	var best *Profile
	bestScore := 0.0

	names := r.List()
	sort.SliceStable(names, func(i, j int) bool {
		return names[i] == DefaultProfileName && names[j] != DefaultProfileName
	})

	for _, name := range names {
		p := r.profiles[name]
		score := p.Score(header)
		if score > bestScore && score > 0.5 {
			bestScore = score
			best = p
		}
	}

	return best, bestScore
}

// ReadHeader reads the header row and the first data row of a table.
// The sample is nil when the table has no data rows.
func ReadHeader(r io.Reader, delimiter rune) ([]string, []string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	// Clean header names
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	// Try to read first data row for samples
	sample, err := reader.Read()
	if err != nil {
		sample = nil
	}

	return header, sample, nil
}
