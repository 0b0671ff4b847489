package format

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/mapping"
)

// ErrUnknownFormat is returned when no registered format matches a name or an export.
var ErrUnknownFormat = errors.New("unknown format")

// Registry holds the export formats, keyed by lower-case name.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) {
	r.formats[strings.ToLower(f.Name())] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// GetParser retrieves a parser by name.
func (r *Registry) GetParser(name string) (Parser, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	p, ok := f.(Parser)
	if !ok {
		return nil, fmt.Errorf("format %s cannot read library exports", name)
	}
	return p, nil
}

// GetSerializer retrieves a serializer by name.
func (r *Registry) GetSerializer(name string) (Serializer, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	s, ok := f.(Serializer)
	if !ok {
		return nil, fmt.Errorf("format %s cannot write records", name)
	}
	return s, nil
}

// List returns all registered format names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat picks the format of a library export from the source
// extension, else from the first bytes of its content. Spreadsheet exports
// often start with a UTF-8 byte order mark, which is ignored. Formats are
// tried in name order so detection is stable.
func (r *Registry) DetectFormat(source string, peek []byte) (Format, error) {
	names := r.List()

	if ext := sourceExt(source); ext != "" {
		for _, name := range names {
			f := r.formats[name]
			for _, fext := range f.Extensions() {
				if ext == fext {
					return f, nil
				}
			}
		}
	}

	peek = bytes.TrimSpace(bytes.TrimPrefix(peek, utf8BOM))
	if len(peek) > 0 {
		for _, name := range names {
			if f := r.formats[name]; f.CanParse(peek) {
				return f, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: could not detect format for %s", ErrUnknownFormat, source)
}

var utf8BOM = []byte("\ufeff")

func sourceExt(source string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
}

// Delimiter returns the field separator of a tabular source: the profile's
// csv_delimiter when it sets one, a tab for .tsv sources, else a comma.
func Delimiter(source string, profile *mapping.Profile) rune {
	if profile != nil && profile.Options.CSVDelimiter != "" {
		return profile.GetCSVDelimiter()
	}
	if sourceExt(source) == "tsv" {
		return '\t'
	}
	return ','
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(name string) (Format, bool) {
	return DefaultRegistry.Get(name)
}

// GetParser retrieves a parser from the default registry.
func GetParser(name string) (Parser, error) {
	return DefaultRegistry.GetParser(name)
}

// GetSerializer retrieves a serializer from the default registry.
func GetSerializer(name string) (Serializer, error) {
	return DefaultRegistry.GetSerializer(name)
}

// DetectFormat detects format using the default registry.
func DetectFormat(filename string, peek []byte) (Format, error) {
	return DefaultRegistry.DetectFormat(filename, peek)
}

// List returns the format names in the default registry.
func List() []string {
	return DefaultRegistry.List()
}
