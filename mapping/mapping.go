// Package mapping provides column-mapping profiles for tabular library exports.
package mapping

import (
	"strings"

	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/rules"
)

// Record fields a column can map to.
const (
	FieldTitle           = "Title"
	FieldItemType        = "ItemType"
	FieldArchiveLocation = "ArchiveLocation"
	FieldAuthor          = "Author"
	FieldEditor          = "Editor"
	FieldTranslator      = "Translator"
	FieldPublicationYear = "PublicationYear"
	FieldPublisher       = "Publisher"
	FieldLanguage        = "Language"
)

// Fields lists every record field in export column order.
var Fields = []string{
	FieldTitle,
	FieldItemType,
	FieldArchiveLocation,
	FieldAuthor,
	FieldEditor,
	FieldTranslator,
	FieldPublicationYear,
	FieldPublisher,
	FieldLanguage,
}

// Profile represents a complete mapping configuration for a library export.
type Profile struct {
	// Name is the profile identifier
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Columns maps source column headers to record fields
	Columns map[string]ColumnMapping `yaml:"columns" json:"columns"`

	// Classify extends the classifier lookup table
	Classify ClassifyOptions `yaml:"classify,omitempty" json:"classify,omitempty"`

	// Options contains parsing options
	Options ProfileOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// ColumnMapping describes how a source column maps to a record field.
type ColumnMapping struct {
	// Field is the target record field (e.g., "Author", "PublicationYear")
	Field string `yaml:"field" json:"field"`

	// Priority decides which column wins when several columns map to the
	// same field and more than one is non-empty (higher wins)
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// ClassifyOptions holds classifier extensions.
type ClassifyOptions struct {
	Tokens []TokenMapping `yaml:"tokens,omitempty" json:"tokens,omitempty"`

	// Rules place records the lookup table and heuristics leave unclassified
	Rules []rules.Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// TokenMapping maps an extra type token to a category identifier or label.
type TokenMapping struct {
	Token    string `yaml:"token" json:"token"`
	Category string `yaml:"category" json:"category"`
}

// ProfileOptions contains parsing options.
type ProfileOptions struct {
	// CSVDelimiter is the CSV field delimiter
	CSVDelimiter string `yaml:"csv_delimiter,omitempty" json:"csv_delimiter,omitempty"`

	// RequireType drops rows whose item type is empty
	RequireType bool `yaml:"require_type,omitempty" json:"require_type,omitempty"`
}

// GetCSVDelimiter returns the CSV delimiter with a default.
func (p *Profile) GetCSVDelimiter() rune {
	if p != nil && p.Options.CSVDelimiter != "" {
		if p.Options.CSVDelimiter == `\t` {
			return '\t'
		}
		return []rune(p.Options.CSVDelimiter)[0]
	}
	return ','
}

// ColumnFor returns the mapping of a source header. Header matching trims
// whitespace and ignores case.
func (p *Profile) ColumnFor(header string) (ColumnMapping, bool) {
	if p == nil {
		return ColumnMapping{}, false
	}
	header = strings.TrimSpace(header)
	if m, ok := p.Columns[header]; ok {
		return m, true
	}
	for k, m := range p.Columns {
		if strings.EqualFold(k, header) {
			return m, true
		}
	}
	return ColumnMapping{}, false
}

// HeaderFor returns the preferred source header for a record field, the
// highest-priority column mapped to it. Ties pick the shortest, then
// lexically smallest header so the result is stable.
func (p *Profile) HeaderFor(field string) string {
	best := ""
	bestPriority := 0
	if p == nil {
		return field
	}
	for header, m := range p.Columns {
		if m.Field != field {
			continue
		}
		switch {
		case best == "",
			m.Priority > bestPriority,
			m.Priority == bestPriority && len(header) < len(best),
			m.Priority == bestPriority && len(header) == len(best) && header < best:
			best = header
			bestPriority = m.Priority
		}
	}
	if best == "" {
		return field
	}
	return best
}

// ClassifierOptions converts the profile's classifier extensions to
// classifier options. Tokens with an unknown category are skipped.
func (p *Profile) ClassifierOptions() []classify.Option {
	if p == nil {
		return nil
	}
	var opts []classify.Option
	if len(p.Classify.Tokens) > 0 {
		tokens := make([]classify.Token, 0, len(p.Classify.Tokens))
		for _, t := range p.Classify.Tokens {
			cat, ok := hub.ParseCategory(t.Category)
			if !ok || !cat.IsTarget() {
				continue
			}
			tokens = append(tokens, classify.Token{Token: t.Token, Category: cat})
		}
		opts = append(opts, classify.WithTokens(tokens...))
	}
	if len(p.Classify.Rules) > 0 {
		opts = append(opts, classify.WithRules(&rules.RuleSet{Name: p.Name, Rules: p.Classify.Rules}))
	}
	return opts
}

// Classifier builds a classifier from the default table plus the profile's tokens.
func (p *Profile) Classifier() *classify.Classifier {
	opts := p.ClassifierOptions()
	if len(opts) == 0 {
		return classify.Default()
	}
	return classify.New(opts...)
}
