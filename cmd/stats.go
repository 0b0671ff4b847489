package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/aggregate"
	"github.com/lehigh-university-libraries/bibstats/filter"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/report"
)

// Filter flags, shared by every command that narrows the collection.
var (
	filterYear     string
	filterType     string
	filterPerson   string
	filterQuery    string
	filterCategory string
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterYear, "year", "", "Only records with this publication year")
	cmd.Flags().StringVar(&filterType, "type", "", "Only records with this item type")
	cmd.Flags().StringVar(&filterPerson, "person", "", "Only records naming this author, editor or translator")
	cmd.Flags().StringVarP(&filterQuery, "query", "q", "", "Free-text search, every word in one field")
	cmd.Flags().StringVar(&filterCategory, "category", "", "Only records of this category (e.g. Book, Tez)")
}

// criteria builds the filter from the flag values.
func criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Year:     strings.TrimSpace(filterYear),
		ItemType: strings.TrimSpace(filterType),
		Person:   filterPerson,
		Query:    filterQuery,
	}
	if filterCategory != "" {
		cat, ok := hub.ParseCategory(filterCategory)
		if !ok || !cat.IsTarget() {
			return filter.Criteria{}, fmt.Errorf("unknown category %q", filterCategory)
		}
		c.Category = &cat
	}
	return c, nil
}

// filtered loads the collection and applies the filter flags.
func filtered(cmd *cobra.Command) (*collection, []*hub.Record, error) {
	coll, err := loadCollection(cmd)
	if err != nil {
		return nil, nil, err
	}
	c, err := criteria()
	if err != nil {
		return nil, nil, err
	}
	if c.IsZero() {
		return coll, coll.records, nil
	}
	return coll, filter.Apply(coll.records, c), nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics",
	Long: `Show the headline statistics of a library export: publications, distinct
languages, publishers and contributors, and the number of articles, books
and theses.

Examples:
  bibstats stats -i library.csv
  bibstats stats -i library.csv --year 2020 -e yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, records, err := filtered(cmd)
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), encoding, aggregate.Summarize(records))
	},
}

func init() {
	addFilterFlags(statsCmd)
}
