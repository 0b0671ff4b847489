package mapping

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibstats/rules"
	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// DefaultProfileName is the profile used when none is given.
const DefaultProfileName = "zotero"

// ErrUnknownProfile is returned when a profile name is not registered.
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileRegistry holds loaded profiles.
type ProfileRegistry struct {
	profiles map[string]*Profile
}

// NewProfileRegistry creates a new profile registry with embedded profiles loaded.
func NewProfileRegistry() (*ProfileRegistry, error) {
	r := &ProfileRegistry{
		profiles: make(map[string]*Profile),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		profile, err := parseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}

		// Use filename without extension as profile name if not set
		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[profile.Name] = profile
	}

	return r, nil
}

// LoadProfile loads a profile from a file path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	return parseProfile(data)
}

// LoadProfileFromString loads a profile from YAML content.
func LoadProfileFromString(content string) (*Profile, error) {
	return parseProfile([]byte(content))
}

func parseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks that every column maps to a known record field and that
// the classification rules compile.
func (p *Profile) Validate() error {
	known := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		known[f] = true
	}
	for header, m := range p.Columns {
		if !known[m.Field] {
			return fmt.Errorf("column %q maps to unknown field %q", header, m.Field)
		}
	}
	if len(p.Classify.Rules) > 0 {
		rs := &rules.RuleSet{Rules: p.Classify.Rules}
		if err := rs.Validate(); err != nil {
			return fmt.Errorf("classify rules: %w", err)
		}
	}
	return nil
}

// Get retrieves a profile by name.
func (r *ProfileRegistry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Lookup retrieves a profile by name, or the default profile when name is empty.
func (r *ProfileRegistry) Lookup(name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfileName
	}
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// Register adds a profile to the registry.
func (r *ProfileRegistry) Register(profile *Profile) {
	r.profiles[profile.Name] = profile
}

// List returns all registered profile names, sorted.
func (r *ProfileRegistry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads all profiles from a directory.
func (r *ProfileRegistry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		profile, err := LoadProfile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid profiles
		}

		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[profile.Name] = profile
	}

	return nil
}

// MergeProfiles merges a custom profile over a base profile.
// Custom columns override base columns; custom tokens and rules follow the base ones.
func MergeProfiles(base, custom *Profile) *Profile {
	merged := &Profile{
		Name:        custom.Name,
		Description: custom.Description,
		Columns:     make(map[string]ColumnMapping),
		Options:     base.Options,
	}

	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Description == "" {
		merged.Description = base.Description
	}

	for k, v := range base.Columns {
		merged.Columns[k] = v
	}
	for k, v := range custom.Columns {
		merged.Columns[k] = v
	}

	merged.Classify.Tokens = append(merged.Classify.Tokens, base.Classify.Tokens...)
	merged.Classify.Tokens = append(merged.Classify.Tokens, custom.Classify.Tokens...)
	merged.Classify.Rules = append(merged.Classify.Rules, base.Classify.Rules...)
	merged.Classify.Rules = append(merged.Classify.Rules, custom.Classify.Rules...)

	if custom.Options.CSVDelimiter != "" {
		merged.Options.CSVDelimiter = custom.Options.CSVDelimiter
	}
	if custom.Options.RequireType {
		merged.Options.RequireType = true
	}

	return merged
}
