package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/format"
	csvformat "github.com/lehigh-university-libraries/bibstats/format/csv"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

var (
	searchOutput string
	searchTo     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Export the records matching the filters",
	Long: `Write the records that match the filters back out, as CSV by default or as
JSON row objects with --to json. Columns use the profile's header names and
every unmapped column follows the mapped ones.

Output defaults to stdout.

Examples:
  bibstats search -i library.csv --query "kitap bölümü"
  bibstats search -i library.csv --person "Yılmaz" --category Makale -o out.csv
  bibstats search -i library.csv --year 2020 --to json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Output file (default: stdout)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Output format (default: the input format)")
	addFilterFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) (err error) {
	coll, records, err := filtered(cmd)
	if err != nil {
		return err
	}

	to := searchTo
	if to == "" {
		to = coll.format
	}
	serializer, err := format.GetSerializer(to)
	if err != nil {
		return err
	}

	var output io.Writer = cmd.OutOrStdout()
	if searchOutput != "" {
		f, createErr := os.Create(searchOutput)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	}

	opts := format.NewSerializeOptions()
	opts.Profile = coll.profile
	opts.Columns = mapping.Fields
	opts.ExtraColumns = csvformat.ExtraKeys(records)
	dest := searchOutput
	if dest == "" {
		dest = coll.source
	}
	opts.Delimiter = format.Delimiter(dest, coll.profile)

	if err := serializer.Serialize(output, records, opts); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	slog.Debug("search complete", "matched", len(records), "of", len(coll.records))
	return nil
}
