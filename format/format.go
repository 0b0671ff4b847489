// Package format defines the interface for record format plugins.
package format

import (
	"io"

	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "csv")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can parse input into records.
type Parser interface {
	Format

	// Parse reads input and returns records in source order.
	Parse(r io.Reader, opts *ParseOptions) ([]*hub.Record, error)
}

// Serializer is a format that can write records to output.
type Serializer interface {
	Format

	// Serialize writes records to the output.
	Serialize(w io.Writer, records []*hub.Record, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Profile is the mapping profile to use
	Profile *mapping.Profile

	// StripHTML removes markup from titles
	StripHTML bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string

	// Delimiter overrides the profile's field separator when non-zero
	Delimiter rune

	// Stats, when set, receives row counts from the parser
	Stats *ParseStats
}

// ParseStats reports what a parser kept and dropped.
type ParseStats struct {
	Rows    int
	Records int
	Skipped int
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Profile is the mapping profile to use
	Profile *mapping.Profile

	// Columns specifies which record fields to include (for tabular formats)
	Columns []string

	// ExtraColumns appends extra fields by key after Columns
	ExtraColumns []string

	// IncludeHeader includes a header row (for tabular formats)
	IncludeHeader bool

	// Delimiter overrides the profile's field separator when non-zero
	Delimiter rune
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{
		StripHTML: true,
	}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		IncludeHeader: true,
	}
}
