package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// Serialize writes hub records as CSV. Headers come from the profile so the
// output parses back with the same profile.
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

	writer := csv.NewWriter(w)
	writer.Comma = profile.GetCSVDelimiter()
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	// Write header
	if opts.IncludeHeader {
		header := make([]string, 0, len(columns)+len(opts.ExtraColumns))
		for _, col := range columns {
			header = append(header, profile.HeaderFor(col))
		}
		header = append(header, opts.ExtraColumns...)
		if err := writer.Write(header); err != nil {
			return err
		}
	}

	// Write records
	for _, record := range records {
		if record == nil {
			continue
		}
		if err := writer.Write(recordToRow(record, columns, opts.ExtraColumns)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func recordToRow(record *hub.Record, columns, extras []string) []string {
	row := make([]string, 0, len(columns)+len(extras))
	for _, col := range columns {
		row = append(row, mapping.FieldValue(record, col))
	}
	for _, key := range extras {
		row = append(row, hub.GetExtraString(record, key))
	}
	return row
}

// ExtraKeys returns the sorted union of extra field keys across records.
func ExtraKeys(records []*hub.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r == nil {
			continue
		}
		for k := range hub.GetExtraFields(r) {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
