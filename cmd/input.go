package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/bibstats/format/csv"
	_ "github.com/lehigh-university-libraries/bibstats/format/json"
)

// collection is a parsed library export ready for aggregation.
type collection struct {
	source     string
	format     string
	records    []*hub.Record
	profile    *mapping.Profile
	classifier *classify.Classifier
	stats      format.ParseStats
}

// readInput returns the raw input and a name for messages.
func readInput(cmd *cobra.Command) (data []byte, name string, err error) {
	path := inputPath
	if path == "" {
		path = os.Getenv("BIBSTATS_INPUT")
	}

	if path == "" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading input file: %w", err)
	}
	return data, path, nil
}

// loadRegistry returns the embedded profiles plus the user's saved ones.
func loadRegistry() (*mapping.ProfileRegistry, error) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	if err := registry.LoadUserProfiles(); err != nil {
		return nil, fmt.Errorf("loading user profiles: %w", err)
	}
	return registry, nil
}

// resolveProfile picks the mapping profile for data: the named profile,
// else the best match for the header row, else the default. A profile file
// is merged over the result.
func resolveProfile(registry *mapping.ProfileRegistry, name, file string, data []byte, delim rune) (*mapping.Profile, error) {
	if name == "" {
		name = os.Getenv("BIBSTATS_PROFILE")
	}

	var profile *mapping.Profile
	if name != "" {
		p, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		profile = p
	} else if header, _, err := mapping.ReadHeader(bytes.NewReader(data), delim); err == nil {
		if p, score := registry.Detect(header); p != nil {
			slog.Debug("detected profile", "profile", p.Name, "score", score)
			profile = p
		}
	}

	if profile == nil {
		p, err := registry.Lookup("")
		if err != nil {
			return nil, err
		}
		profile = p
	}

	if file != "" {
		custom, err := mapping.LoadProfile(file)
		if err != nil {
			return nil, fmt.Errorf("loading profile file: %w", err)
		}
		profile = mapping.MergeProfiles(profile, custom)
	}

	return profile, nil
}

// detectFormat returns the --format flag, else the format guessed from the
// file extension and the first bytes of data, else csv.
func detectFormat(name string, data []byte) (string, error) {
	if formatName != "" {
		if _, ok := format.Get(formatName); !ok {
			return "", fmt.Errorf("%w: %s (available: %v)", format.ErrUnknownFormat, formatName, format.List())
		}
		return formatName, nil
	}

	peek := data
	if len(peek) > 512 {
		peek = peek[:512]
	}
	f, err := format.DetectFormat(name, peek)
	if err != nil {
		slog.Debug("could not detect input format, assuming csv", "source", name)
		return "csv", nil
	}
	return f.Name(), nil
}

// loadCollection reads, maps and parses the input selected by the flags.
func loadCollection(cmd *cobra.Command) (*collection, error) {
	data, name, err := readInput(cmd)
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	profile, err := resolveProfile(registry, profileName, profileFile, data, format.Delimiter(name, nil))
	if err != nil {
		return nil, err
	}

	formatID, err := detectFormat(name, data)
	if err != nil {
		return nil, err
	}
	parser, err := format.GetParser(formatID)
	if err != nil {
		return nil, err
	}

	coll := &collection{
		source:     name,
		format:     formatID,
		profile:    profile,
		classifier: profile.Classifier(),
	}

	opts := format.NewParseOptions()
	opts.Profile = profile
	opts.SourceName = name
	opts.Delimiter = format.Delimiter(name, profile)
	opts.Stats = &coll.stats

	coll.records, err = parser.Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded collection", "source", name, "profile", profile.Name, "records", len(coll.records))
	return coll, nil
}
