package cmd

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/report"
)

var (
	classifyUnclassified bool
	classifyExplain      bool
)

// classifiedRecord is one line of classify output.
type classifiedRecord struct {
	Record          int    `json:"record" yaml:"record"`
	Title           string `json:"title" yaml:"title"`
	ItemType        string `json:"itemType" yaml:"itemType"`
	ArchiveLocation string `json:"archiveLocation,omitempty" yaml:"archiveLocation,omitempty"`
	Category        string `json:"category" yaml:"category"`
	Label           string `json:"label" yaml:"label"`
	Reason          string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// classification is the classify command output.
type classification struct {
	Records []classifiedRecord `json:"records" yaml:"records"`
	Tally   map[string]int     `json:"tally" yaml:"tally"`
}

// Table implements report.Tabular. The tally is left out of tabular output.
func (c classification) Table() ([]string, [][]string) {
	header := []string{"record", "category", "label", "itemType", "archiveLocation", "title", "reason"}
	rows := make([][]string, 0, len(c.Records))
	for _, r := range c.Records {
		rows = append(rows, []string{
			strconv.Itoa(r.Record), r.Category, r.Label, r.ItemType, r.ArchiveLocation, r.Title, r.Reason,
		})
	}
	return header, rows
}

// classifyRecords classifies records in order. Record numbers count from 1
// over the parsed records.
func classifyRecords(records []*hub.Record, cl *classify.Classifier, onlyUnclassified, explain bool) classification {
	out := classification{Tally: make(map[string]int, len(hub.AllCategories))}
	tally := make(classify.Tally, len(hub.AllCategories))
	for _, cat := range hub.AllCategories {
		out.Tally[cat.String()] = 0
	}

	for i, r := range records {
		cat, reason := cl.Explain(r)
		tally[cat]++
		out.Tally[cat.String()]++

		if onlyUnclassified && cat != hub.CategoryUnclassified {
			continue
		}
		cr := classifiedRecord{
			Record:          i + 1,
			Title:           helpers.TruncateText(r.Title, 80),
			ItemType:        r.ItemType,
			ArchiveLocation: r.ArchiveLocation,
			Category:        cat.String(),
			Label:           cat.Label(),
		}
		if explain {
			cr.Reason = reason
		}
		out.Records = append(out.Records, cr)
	}

	slog.Info("classified records", "count", len(records), "categories", tally)
	return out
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show the category of every record",
	Long: `Classify every record into one of the publication categories and report
the per-category tally. Records no rule places are Unclassified.

Examples:
  bibstats classify -i library.csv --unclassified
  bibstats classify -i library.csv --explain -e csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, records, err := filtered(cmd)
		if err != nil {
			return err
		}
		out := classifyRecords(records, coll.classifier, classifyUnclassified, classifyExplain)
		return report.Encode(cmd.OutOrStdout(), encoding, out)
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyUnclassified, "unclassified", false, "Only list unclassified records")
	classifyCmd.Flags().BoolVar(&classifyExplain, "explain", false, "Include the rule that decided each category")
	addFilterFlags(classifyCmd)
}
