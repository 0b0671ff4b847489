package cmd

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibstats/format"
	"github.com/lehigh-university-libraries/bibstats/mapping"
)

var profilesSave bool

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage mapping profiles",
	Long: `List, inspect and create the column-mapping profiles used to read library exports.

Built-in profiles are embedded in the binary. Saved profiles live in
~/.bibstats/profiles and replace built-in profiles of the same name.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		profiles := registry.List()
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No profiles found")
			return nil
		}

		fmt.Fprintln(out, "Available profiles:")
		for _, name := range profiles {
			profile, _ := registry.Get(name)
			marker := ""
			if name == mapping.DefaultProfileName {
				marker = " (default)"
			}
			desc := ""
			if profile.Description != "" {
				desc = " - " + profile.Description
			}
			fmt.Fprintf(out, "  %s%s%s\n", name, marker, desc)
		}

		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [profile]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		profile, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}

		return writeProfile(cmd, profile)
	},
}

var profilesFieldsCmd = &cobra.Command{
	Use:   "fields [profile]",
	Short: "List column mappings in a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		profile, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}

		headers := make([]string, 0, len(profile.Columns))
		for h := range profile.Columns {
			headers = append(headers, h)
		}
		sort.Strings(headers)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Columns in %s profile:\n\n", profile.Name)
		fmt.Fprintf(out, "%-30s -> %-20s %s\n", "Source Column", "Field", "Priority")
		fmt.Fprintf(out, "%-30s    %-20s %s\n", "-------------", "-----", "--------")
		for _, h := range headers {
			m := profile.Columns[h]
			fmt.Fprintf(out, "%-30s -> %-20s %d\n", h, m.Field, m.Priority)
		}

		if n := len(profile.Classify.Tokens); n > 0 {
			fmt.Fprintf(out, "\nClassifier tokens: %d\n", n)
		}
		if n := len(profile.Classify.Rules); n > 0 {
			fmt.Fprintf(out, "Classification rules: %d\n", n)
		}

		return nil
	},
}

var profilesDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Find the profile that best fits an export's header row",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, name, err := readInput(cmd)
		if err != nil {
			return err
		}
		header, _, err := mapping.ReadHeader(bytes.NewReader(data), format.Delimiter(name, nil))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}

		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		profile, score := registry.Detect(header)
		if profile == nil {
			fmt.Fprintf(out, "No profile matches %s; %s will be used\n", name, mapping.DefaultProfileName)
			return nil
		}
		fmt.Fprintf(out, "%s matches %s (%.0f%% of its fields)\n", profile.Name, name, score*100)
		fmt.Fprintf(out, "  fields: %v\n", profile.CoveredFields(header))
		return nil
	},
}

var profilesInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a profile from an export's header row",
	Long: `Create a profile with suggested mappings for every recognized column of
an export's header row. English and Turkish column names are recognized.

The profile is printed, or written to the profiles directory with --save.

Examples:
  bibstats profiles init katalog -i katalog.csv
  bibstats profiles init katalog -i katalog.csv --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, name, err := readInput(cmd)
		if err != nil {
			return err
		}
		delim := format.Delimiter(name, nil)
		header, _, err := mapping.ReadHeader(bytes.NewReader(data), delim)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}

		profile := mapping.FromColumns(args[0], header)
		profile.Description = "Generated from " + name
		if delim == '\t' {
			profile.Options.CSVDelimiter = `\t`
		}
		if err := profile.Validate(); err != nil {
			return err
		}

		if !profilesSave {
			return writeProfile(cmd, profile)
		}
		path, err := mapping.SaveProfile(profile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s to %s\n", profile.Name, path)
		return nil
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mapping.DeleteProfile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
		return nil
	},
}

func writeProfile(cmd *cobra.Command, profile *mapping.Profile) error {
	// Print as YAML
	out, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func init() {
	profilesInitCmd.Flags().BoolVar(&profilesSave, "save", false, "Save to the profiles directory")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesFieldsCmd)
	profilesCmd.AddCommand(profilesDetectCmd)
	profilesCmd.AddCommand(profilesInitCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}
