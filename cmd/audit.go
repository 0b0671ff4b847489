package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/bibstats/hub"
	"github.com/lehigh-university-libraries/bibstats/mapping"
	"github.com/lehigh-university-libraries/bibstats/report"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit an export for mapping gaps",
	Long:  `Audit commands help find columns the profile leaves unmapped.`,
}

// auditColumnsCmd analyzes unmapped columns across records
var auditColumnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Analyze unmapped columns to find mapping candidates",
	Long: `Analyzes the columns the profile does not map, which the statistics
never see, to identify:
- Columns that are filled often enough to be worth mapping
- Columns whose name suggests a record field
- Inconsistent value types across records

Text output is the default; pass --encoding for a machine-readable report.

Example:
  bibstats audit columns -i library.csv
  bibstats audit columns -i library.csv --threshold 20 -e yaml`,
	Args: cobra.NoArgs,
	RunE: runAuditColumns,
}

// ColumnAuditReport contains the results of a column audit.
type ColumnAuditReport struct {
	TotalRecords      int                    `json:"total_records" yaml:"total_records"`
	RecordsWithExtras int                    `json:"records_with_extras" yaml:"records_with_extras"`
	ColumnFrequency   map[string]ColumnStats `json:"column_frequency" yaml:"column_frequency"`
	TypeInconsistency map[string][]string    `json:"type_inconsistency,omitempty" yaml:"type_inconsistency,omitempty"`
	MappingCandidates []MappingCandidate     `json:"mapping_candidates" yaml:"mapping_candidates"`
}

// ColumnStats tracks statistics for a single unmapped column.
type ColumnStats struct {
	Count      int      `json:"count" yaml:"count"`
	Percentage float64  `json:"percentage" yaml:"percentage"`
	Examples   []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// MappingCandidate represents a column that could be mapped.
type MappingCandidate struct {
	Column     string  `json:"column" yaml:"column"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Field      string  `json:"field,omitempty" yaml:"field,omitempty"`
	Reason     string  `json:"reason" yaml:"reason"`
}

// Table implements report.Tabular with one row per unmapped column, most
// frequent first.
func (r *ColumnAuditReport) Table() ([]string, [][]string) {
	suggested := make(map[string]string, len(r.MappingCandidates))
	for _, c := range r.MappingCandidates {
		suggested[c.Column] = c.Field
	}
	rows := make([][]string, 0, len(r.ColumnFrequency))
	for _, col := range r.columnsByCount() {
		stats := r.ColumnFrequency[col]
		rows = append(rows, []string{
			col,
			fmt.Sprint(stats.Count),
			fmt.Sprintf("%.1f", stats.Percentage),
			suggested[col],
			strings.Join(stats.Examples, "; "),
		})
	}
	return []string{"column", "count", "percentage", "field", "examples"}, rows
}

func (r *ColumnAuditReport) columnsByCount() []string {
	cols := make([]string, 0, len(r.ColumnFrequency))
	for k := range r.ColumnFrequency {
		cols = append(cols, k)
	}
	sort.Slice(cols, func(i, j int) bool {
		ci, cj := r.ColumnFrequency[cols[i]].Count, r.ColumnFrequency[cols[j]].Count
		if ci != cj {
			return ci > cj
		}
		return cols[i] < cols[j]
	})
	return cols
}

func init() {
	auditCmd.AddCommand(auditColumnsCmd)

	auditColumnsCmd.Flags().Float64("threshold", 50.0, "Percentage threshold for mapping candidates")
	auditColumnsCmd.Flags().Int("examples", 3, "Number of example values to include")
}

func runAuditColumns(cmd *cobra.Command, args []string) error {
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	maxExamples, _ := cmd.Flags().GetInt("examples")

	coll, err := loadCollection(cmd)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	rep := auditColumns(coll.records, threshold, maxExamples)

	if cmd.Flags().Changed("encoding") {
		return report.Encode(cmd.OutOrStdout(), encoding, rep)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatColumnReport(rep))
	return err
}

func auditColumns(records []*hub.Record, threshold float64, maxExamples int) *ColumnAuditReport {
	rep := &ColumnAuditReport{
		TotalRecords:    len(records),
		ColumnFrequency: make(map[string]ColumnStats),
	}

	// Count extras usage
	for _, record := range records {
		if record.Extra == nil || len(record.Extra.Fields) == 0 {
			continue
		}
		rep.RecordsWithExtras++

		for key, value := range record.Extra.Fields {
			stats := rep.ColumnFrequency[key]
			stats.Count++

			// Collect distinct examples
			if len(stats.Examples) < maxExamples {
				if example := valueString(value); example != "" && len(example) < 100 && !contains(stats.Examples, example) {
					stats.Examples = append(stats.Examples, example)
				}
			}

			rep.ColumnFrequency[key] = stats
		}
	}

	if rep.TotalRecords == 0 {
		return rep
	}

	// Calculate percentages and find mapping candidates
	for key, stats := range rep.ColumnFrequency {
		stats.Percentage = float64(stats.Count) / float64(rep.TotalRecords) * 100
		rep.ColumnFrequency[key] = stats

		field, _ := mapping.SuggestField(key)
		switch {
		case field != "":
			rep.MappingCandidates = append(rep.MappingCandidates, MappingCandidate{
				Column:     key,
				Count:      stats.Count,
				Percentage: stats.Percentage,
				Field:      field,
				Reason:     fmt.Sprintf("Name suggests %s", field),
			})
		case stats.Percentage >= threshold:
			rep.MappingCandidates = append(rep.MappingCandidates, MappingCandidate{
				Column:     key,
				Count:      stats.Count,
				Percentage: stats.Percentage,
				Reason:     fmt.Sprintf("Filled in %.1f%% of records (threshold: %.1f%%)", stats.Percentage, threshold),
			})
		}
	}

	// Sort candidates by percentage
	sort.Slice(rep.MappingCandidates, func(i, j int) bool {
		a, b := rep.MappingCandidates[i], rep.MappingCandidates[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return a.Column < b.Column
	})

	// Check type consistency
	if mixed := hub.ValidateExtrasTypes(records); len(mixed) > 0 {
		rep.TypeInconsistency = mixed
	}

	return rep
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func valueString(v *structpb.Value) string {
	switch val := v.AsInterface().(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatColumnReport(rep *ColumnAuditReport) string {
	var sb strings.Builder

	sb.WriteString("=== Unmapped Column Audit Report ===\n\n")
	sb.WriteString(fmt.Sprintf("Total records: %d\n", rep.TotalRecords))
	if rep.TotalRecords > 0 {
		sb.WriteString(fmt.Sprintf("Records with unmapped values: %d (%.1f%%)\n\n",
			rep.RecordsWithExtras,
			float64(rep.RecordsWithExtras)/float64(rep.TotalRecords)*100))
	}

	// Mapping candidates
	if len(rep.MappingCandidates) > 0 {
		sb.WriteString("MAPPING CANDIDATES (add to the profile's columns):\n")
		for _, c := range rep.MappingCandidates {
			target := ""
			if c.Field != "" {
				target = " -> " + c.Field
			}
			sb.WriteString(fmt.Sprintf("  * %s%s: %d records (%.1f%%)\n", c.Column, target, c.Count, c.Percentage))
		}
		sb.WriteString("\n")
	}

	// Type inconsistencies
	if len(rep.TypeInconsistency) > 0 {
		sb.WriteString("TYPE INCONSISTENCIES (mixed types for same column):\n")
		keys := make([]string, 0, len(rep.TypeInconsistency))
		for k := range rep.TypeInconsistency {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  * %s: %s\n", k, strings.Join(rep.TypeInconsistency[k], ", ")))
		}
		sb.WriteString("\n")
	}

	// All columns by frequency
	sb.WriteString("ALL UNMAPPED COLUMNS BY FREQUENCY:\n")
	for _, col := range rep.columnsByCount() {
		stats := rep.ColumnFrequency[col]
		sb.WriteString(fmt.Sprintf("  %s: %d (%.1f%%)\n", col, stats.Count, stats.Percentage))
		if len(stats.Examples) > 0 {
			sb.WriteString(fmt.Sprintf("    examples: %s\n", strings.Join(stats.Examples, ", ")))
		}
	}

	return sb.String()
}
