package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// Serialize writes hub records as a JSON array of row objects keyed by the
// profile's header names. Empty fields are left out. Extra fields are
// written when listed in ExtraColumns.
func (f *Format) Serialize(w io.Writer, records []*hub.Record, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	profile := opts.Profile
	if profile == nil {
		p, err := defaultProfile()
		if err != nil {
			return fmt.Errorf("loading default profile: %w", err)
		}
		profile = p
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = mapping.Fields
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		row := make(map[string]any, len(columns)+len(opts.ExtraColumns))
		for _, col := range columns {
			if v := mapping.FieldValue(record, col); v != "" {
				row[profile.HeaderFor(col)] = v
			}
		}
		for _, key := range opts.ExtraColumns {
			if v, ok := hub.GetExtra(record, key); ok {
				row[key] = v
			}
		}
		rows = append(rows, row)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(rows)
}
