package mapping

import (
	"strings"

	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// column is the resolved target of one header cell.
type column struct {
	field    string // record field, empty for extra columns
	extra    string // extra key for unmapped headers
	priority int
}

// RowMapper turns table rows into records under a profile.
type RowMapper struct {
	columns   []column
	stripHTML bool
}

// NewRowMapper resolves a header row against the profile. Headers the
// profile does not map become extra keys. When stripHTML is set, titles
// lose their markup and entities.
func (p *Profile) NewRowMapper(header []string, stripHTML bool) *RowMapper {
	m := &RowMapper{columns: make([]column, len(header)), stripHTML: stripHTML}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if cm, ok := p.ColumnFor(h); ok {
			m.columns[i] = column{field: cm.Field, priority: cm.Priority}
			continue
		}
		m.columns[i] = column{extra: h}
	}
	return m
}

// Record maps one row. Values are trimmed and empty values are skipped.
// When several columns map to one field the highest priority non-empty
// value wins, the first such column on a tie. Cells past the header are
// ignored.
func (m *RowMapper) Record(row []string) *hub.Record {
	record := hub.NewRecord()

	// Priority of the column that set each field so far
	set := make(map[string]int)

	for i, value := range row {
		if i >= len(m.columns) {
			break
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		col := m.columns[i]
		if col.field == "" {
			if col.extra != "" {
				hub.SetExtra(record, col.extra, value)
			}
			continue
		}

		if p, ok := set[col.field]; ok && p >= col.priority {
			continue
		}
		if col.field == FieldTitle && m.stripHTML {
			value = helpers.CleanText(value)
		}
		set[col.field] = col.priority
		SetField(record, col.field, value)
	}

	return record
}

// SetField sets a record field by name. Unknown names are ignored.
func SetField(record *hub.Record, field, value string) {
	switch field {
	case FieldTitle:
		record.Title = value
	case FieldItemType:
		record.ItemType = value
	case FieldArchiveLocation:
		record.ArchiveLocation = value
	case FieldAuthor:
		record.Author = value
	case FieldEditor:
		record.Editor = value
	case FieldTranslator:
		record.Translator = value
	case FieldPublicationYear:
		record.PublicationYear = value
	case FieldPublisher:
		record.Publisher = value
	case FieldLanguage:
		record.Language = value
	}
}

// FieldValue returns a record field by name, or "" for unknown names.
func FieldValue(record *hub.Record, field string) string {
	switch field {
	case FieldTitle:
		return record.Title
	case FieldItemType:
		return record.ItemType
	case FieldArchiveLocation:
		return record.ArchiveLocation
	case FieldAuthor:
		return record.Author
	case FieldEditor:
		return record.Editor
	case FieldTranslator:
		return record.Translator
	case FieldPublicationYear:
		return record.PublicationYear
	case FieldPublisher:
		return record.Publisher
	case FieldLanguage:
		return record.Language
	}
	return ""
}
