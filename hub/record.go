// Package hub provides the record model shared by the parser, classifier and aggregator.
package hub

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// Record is one bibliographic entry from the source table.
// It has no identity beyond its position in the source collection.
type Record struct {
	Title           string
	ItemType        string
	ArchiveLocation string
	Author          string
	Editor          string
	Translator      string
	PublicationYear string
	Publisher       string
	Language        string

	// Extra holds every source column that has no dedicated field (Key, DOI, ISBN, ...).
	Extra *structpb.Struct
}

// NewRecord creates a new empty Record.
func NewRecord() *Record {
	return &Record{}
}

// Contributors returns the raw, delimiter-joined contributor field for a role.
func (r *Record) Contributors(role Role) string {
	switch role {
	case RoleAuthor:
		return r.Author
	case RoleEditor:
		return r.Editor
	case RoleTranslator:
		return r.Translator
	}
	return ""
}

// SetExtra sets an extra field value on the record.
func SetExtra(r *Record, key string, value any) {
	if r.Extra == nil {
		r.Extra = &structpb.Struct{
			Fields: make(map[string]*structpb.Value),
		}
	}
	v, err := structpb.NewValue(value)
	if err == nil {
		r.Extra.Fields[key] = v
	}
}

// GetExtra retrieves an extra field value.
func GetExtra(r *Record, key string) (any, bool) {
	if r.Extra == nil || r.Extra.Fields == nil {
		return nil, false
	}
	v, ok := r.Extra.Fields[key]
	if !ok {
		return nil, false
	}
	return v.AsInterface(), true
}

// GetExtraString retrieves an extra field as a string.
func GetExtraString(r *Record, key string) string {
	v, ok := GetExtra(r, key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// GetExtraFields returns all extra fields as a map.
func GetExtraFields(r *Record) map[string]any {
	if r.Extra == nil || r.Extra.Fields == nil {
		return nil
	}
	result := make(map[string]any, len(r.Extra.Fields))
	for k, v := range r.Extra.Fields {
		result[k] = v.AsInterface()
	}
	return result
}

// FieldValues returns the dedicated fields keyed by field name.
func (r *Record) FieldValues() map[string]string {
	return map[string]string{
		"Title":           r.Title,
		"ItemType":        r.ItemType,
		"ArchiveLocation": r.ArchiveLocation,
		"Author":          r.Author,
		"Editor":          r.Editor,
		"Translator":      r.Translator,
		"PublicationYear": r.PublicationYear,
		"Publisher":       r.Publisher,
		"Language":        r.Language,
	}
}
