package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/filter"
	"github.com/lehigh-university-libraries/bibstats/helpers"
	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/report"
)

var facetRole string

var facets = map[string]func([]*hub.Record) []string{
	"persons": filter.Persons,
	"years":   filter.Years,
	"types":   filter.ItemTypes,
}

var facetsCmd = &cobra.Command{
	Use:   "facets <persons|years|types>",
	Short: "List the values a filter accepts",
	Long: `List the distinct values of a filter in dropdown order: contributors in
Turkish collation order, years newest first, item types ascending.

Examples:
  bibstats facets persons -i library.csv
  bibstats facets persons -i library.csv --role editor
  bibstats facets years -i library.csv -e csv

--role accepts aut, edt and trl, relator URIs, and English or Turkish role
names, and implies the persons facet.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"persons", "years", "types"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, ok := facets[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown facet %q (available: persons, types, years)", args[0])
		}
		if facetRole != "" {
			role, ok := helpers.ParseRole(facetRole)
			if !ok {
				codes := make([]string, 0, len(hub.Roles))
				for _, r := range hub.Roles {
					codes = append(codes, helpers.RoleCode(r))
				}
				return fmt.Errorf("unknown role %q (available: %s)", facetRole, strings.Join(codes, ", "))
			}
			fn = func(records []*hub.Record) []string {
				return filter.PersonsIn(records, role)
			}
		}
		_, records, err := filtered(cmd)
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), encoding, valueList(fn(records)))
	},
}

func init() {
	facetsCmd.Flags().StringVar(&facetRole, "role", "", "Only list contributors in this role")
	addFilterFlags(facetsCmd)
}
