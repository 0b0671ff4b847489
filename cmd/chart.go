package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/aggregate"
	"github.com/lehigh-university-libraries/bibstats/classify"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/report"
)

var (
	chartDimension string
	chartSelect    string
	chartLimit     int
)

// chartFunc computes one chart from the filtered records.
type chartFunc func(records []*hub.Record, cl *classify.Classifier) (any, error)

var charts = map[string]chartFunc{
	"yearly": func(records []*hub.Record, cl *classify.Classifier) (any, error) {
		dim, err := aggregate.ParseDimension(chartDimension)
		if err != nil {
			return nil, err
		}
		return aggregate.ByYear(records, dim, chartSelect, cl)
	},
	"years": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.YearCounts(records), nil
	},
	"types": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.ByCategory(records), nil
	},
	"categories": func(records []*hub.Record, cl *classify.Classifier) (any, error) {
		return aggregate.ByClassifiedCategory(records, cl), nil
	},
	"languages": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.ByLanguage(records), nil
	},
	"publishers": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.ByPublisher(records, chartLimit), nil
	},
	"authors": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.AuthorChart(records), nil
	},
	"contributors": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return aggregate.ContributorChart(records), nil
	},
	"productive": func(records []*hub.Record, cl *classify.Classifier) (any, error) {
		return aggregate.ProductiveContributors(records, cl), nil
	},
	"series": func(records []*hub.Record, _ *classify.Classifier) (any, error) {
		return valueList(aggregate.ArchiveValues(records)), nil
	},
}

func chartNames() []string {
	names := make([]string, 0, len(charts))
	for name := range charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildChart computes the named chart.
func buildChart(name string, records []*hub.Record, cl *classify.Classifier) (any, error) {
	fn, ok := charts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown chart %q (available: %s)", name, strings.Join(chartNames(), ", "))
	}
	return fn(records, cl)
}

// valueList is a flat list of values, one per row in tabular output.
type valueList []string

// Table implements report.Tabular.
func (v valueList) Table() ([]string, [][]string) {
	rows := make([][]string, len(v))
	for i, s := range v {
		rows[i] = []string{s}
	}
	return []string{"value"}, rows
}

var chartCmd = &cobra.Command{
	Use:   "chart <kind>",
	Short: "Compute the label/count data of a chart",
	Long: `Compute the ordered labels and count series one dashboard chart draws.

Kinds:
  yearly        Publications per year, one series per --dimension value
  years         Publications per year
  types         Publications per archive location or item type
  categories    Publications per classified category
  languages     Publications per language
  publishers    Most frequent publishers (--limit)
  authors       Most frequent book authors
  contributors  Most frequent book contributors, one series per role
  productive    Most productive contributors, one series per category
  series        Distinct archive locations, the values --select accepts

Examples:
  bibstats chart yearly -i library.csv --dimension archive --select Makale
  bibstats chart publishers -i library.csv --limit 20 -e csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: chartNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, records, err := filtered(cmd)
		if err != nil {
			return err
		}
		v, err := buildChart(args[0], records, coll.classifier)
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), encoding, v)
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartDimension, "dimension", "archive", "Yearly series dimension (archive, type, category)")
	chartCmd.Flags().StringVar(&chartSelect, "select", aggregate.AllSeries, "Yearly series to keep, or \"all\"")
	chartCmd.Flags().IntVar(&chartLimit, "limit", aggregate.PublisherChartLimit, "Number of publishers to keep (0 keeps all)")
	addFilterFlags(chartCmd)
}
