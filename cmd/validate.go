package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
)

var (
	validateStrict  bool
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an export for problems that skew the statistics",
	Long: `Parse the input and report what the statistics will see: how many rows
were kept and dropped, how many records stay unclassified, and records with
missing fields, odd years or malformed DOI, ISBN and ISSN values.

Input defaults to stdin. With --strict, records with errors fail the command.

Examples:
  bibstats validate -i library.csv
  bibstats validate -i library.csv --strict --verbose`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Require year and contributor, and fail on errors")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show every issue")
}

// validationReport summarizes the checks over one collection.
type validationReport struct {
	Source       string
	Profile      string
	Rows         int
	Records      int
	Skipped      int
	Unclassified int
	Invalid      int
	Warned       int
	Undated      int
	Approximate  int
	Unreadable   int
	Issues       []recordIssue
	MixedTypes   map[string][]string
}

// recordIssue is one problem found in one record.
type recordIssue struct {
	Record  int
	Title   string
	Warning bool
	Err     hub.ValidationError
}

func validateCollection(coll *collection, opts hub.ValidationOptions) *validationReport {
	rep := &validationReport{
		Source:     coll.source,
		Profile:    coll.profile.Name,
		Rows:       coll.stats.Rows,
		Records:    len(coll.records),
		Skipped:    coll.stats.Skipped,
		MixedTypes: hub.ValidateExtrasTypes(coll.records),
	}

	for i, r := range coll.records {
		if coll.classifier.Classify(r) == hub.CategoryUnclassified {
			rep.Unclassified++
		}

		switch _, precision := helpers.ParseYear(r.PublicationYear); {
		case r.PublicationYear == "":
			rep.Undated++
		case precision == helpers.YearDecade || precision == helpers.YearCentury:
			rep.Approximate++
		case precision == helpers.YearUnknown:
			rep.Unreadable++
		}

		res := hub.Validate(r, opts)
		if !res.IsValid() {
			rep.Invalid++
		}
		if res.HasWarnings() {
			rep.Warned++
		}
		for _, e := range res.Errors {
			rep.Issues = append(rep.Issues, recordIssue{Record: i + 1, Title: r.Title, Err: e})
		}
		for _, w := range res.Warnings {
			rep.Issues = append(rep.Issues, recordIssue{Record: i + 1, Title: r.Title, Warning: true, Err: w})
		}
	}

	return rep
}

func (rep *validationReport) write(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "Parsed %d records from %s (profile %s)\n", rep.Records, rep.Source, rep.Profile)
	if rep.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped %d of %d rows without an item type\n", rep.Skipped, rep.Rows)
	}
	fmt.Fprintf(w, "  Unclassified: %d\n", rep.Unclassified)
	fmt.Fprintf(w, "  Records with errors: %d\n", rep.Invalid)
	fmt.Fprintf(w, "  Records with warnings: %d\n", rep.Warned)
	if rep.Undated > 0 {
		fmt.Fprintf(w, "  Without a publication year: %d\n", rep.Undated)
	}
	if rep.Approximate > 0 {
		fmt.Fprintf(w, "  Decade or century years: %d\n", rep.Approximate)
	}
	if rep.Unreadable > 0 {
		fmt.Fprintf(w, "  Unreadable years: %d\n", rep.Unreadable)
	}

	if len(rep.MixedTypes) > 0 {
		keys := make([]string, 0, len(rep.MixedTypes))
		for k := range rep.MixedTypes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "\nColumns with mixed value types:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, rep.MixedTypes[k])
		}
	}

	if !verbose || len(rep.Issues) == 0 {
		return
	}

	fmt.Fprintln(w, "\nIssues:")
	for _, is := range rep.Issues {
		level := "error"
		if is.Warning {
			level = "warning"
		}
		fmt.Fprintf(w, "  record %d %q: %s: %s\n", is.Record, helpers.TruncateText(is.Title, 60), level, is.Err.Error())
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	coll, err := loadCollection(cmd)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	opts := hub.DefaultValidationOptions()
	if validateStrict {
		opts = hub.StrictValidationOptions()
	}

	rep := validateCollection(coll, opts)
	rep.write(cmd.OutOrStdout(), validateVerbose)

	if validateStrict && rep.Invalid > 0 {
		return fmt.Errorf("%d of %d records failed validation", rep.Invalid, rep.Records)
	}
	return nil
}
