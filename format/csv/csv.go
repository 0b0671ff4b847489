// Package csv provides a format plugin for header-based library CSV exports.
package csv

import (
	"bytes"
	"sync"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// Format implements the CSV format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Comma-separated library export (Zotero style headers)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"csv", "tsv"}
}

// CanParse returns true if the input looks like CSV data.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(bytes.TrimPrefix(peek, bom))
	if len(peek) == 0 {
		return false
	}

	// CSV typically starts with text, not { or [
	if peek[0] == '{' || peek[0] == '[' || peek[0] == '<' {
		return false
	}

	hasComma := bytes.Contains(peek, []byte(","))
	hasTab := bytes.Contains(peek, []byte("\t"))
	hasNewline := bytes.Contains(peek, []byte("\n"))

	// If it has delimiters and newlines, it's probably CSV
	return (hasComma || hasTab) && hasNewline
}

var bom = []byte("\ufeff")

// defaultProfile is used when options carry no profile.
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
