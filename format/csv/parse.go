package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// Parse reads CSV and returns hub records.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Record, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}
	profile := opts.Profile
	if profile == nil {
		p, err := defaultProfile()
		if err != nil {
			return nil, fmt.Errorf("loading default profile: %w", err)
		}
		profile = p
	}

	reader := csv.NewReader(r)
	reader.Comma = profile.GetCSVDelimiter()
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	// Read all rows
	rows, err := reader.ReadAll()
	if err != nil {
		if opts.SourceName != "" {
			return nil, fmt.Errorf("parsing CSV %s: %w", opts.SourceName, err)
		}
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// First row is header
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], string(bom))
	}
	mapper := profile.NewRowMapper(header, opts.StripHTML)

	records := make([]*hub.Record, 0, len(rows)-1)
	skipped := 0
	for i := 1; i < len(rows); i++ {
		record := mapper.Record(rows[i])
		if profile.Options.RequireType && record.ItemType == "" {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if opts.Stats != nil {
		opts.Stats.Rows = len(rows) - 1
		opts.Stats.Records = len(records)
		opts.Stats.Skipped = skipped
	}
	slog.Debug("parsed csv", "source", opts.SourceName, "rows", len(rows)-1, "records", len(records), "skipped", skipped)

	return records, nil
}
