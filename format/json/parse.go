package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

// Parse reads a JSON array of row objects, or a single object, and returns
// hub records. Keys map through the profile like CSV headers.
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

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	data = bytes.TrimSpace(trimBOM(data))
	if len(data) == 0 {
		return nil, nil
	}

	var rows []map[string]any
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parsing JSON array: %w", err)
		}
	case '{':
		var row map[string]any
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("parsing JSON object: %w", err)
		}
		rows = append(rows, row)
	default:
		return nil, fmt.Errorf("invalid JSON: expected { or [")
	}

	records := make([]*hub.Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		header, values := flatten(row)
		record := profile.NewRowMapper(header, opts.StripHTML).Record(values)
		if profile.Options.RequireType && record.ItemType == "" {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if opts.Stats != nil {
		opts.Stats.Rows = len(rows)
		opts.Stats.Records = len(records)
		opts.Stats.Skipped = skipped
	}
	slog.Debug("parsed json", "source", opts.SourceName, "rows", len(rows), "records", len(records), "skipped", skipped)

	return records, nil
}

// flatten returns a row object's keys in sorted order with their values as
// cell text. Nested values are kept as their JSON text.
func flatten(row map[string]any) ([]string, []string) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = cellText(row[k])
	}
	return keys, values
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
