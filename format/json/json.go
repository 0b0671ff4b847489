// Package json provides a format plugin for library exports as JSON arrays
// of row objects keyed by source column header, the shape spreadsheet
// loaders hand to the browser.
package json

import (
	"bytes"
	"sync"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// Format implements the JSON row format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "json"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON array of row objects keyed by column header"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a JSON object or array.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(trimBOM(peek))
	return len(peek) > 0 && (peek[0] == '[' || peek[0] == '{')
}

func trimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\ufeff"))
}

var defaultProfile = sync.OnceValues(func() (*mapping.Profile, error) {
	reg, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Lookup(mapping.DefaultProfileName)
})

func init() {
	format.Register(&Format{})
}
