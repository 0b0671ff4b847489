// Package cmd provides CLI commands for bibstats.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibstats/mapping"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

// Flags shared by every command that reads a library export.
var (
	inputPath   string
	profileName string
	profileFile string
	formatName  string
	encoding    string
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "bibstats",
	Short: "Compute publication statistics from a reference library export",
	Long: `Bibstats reads a Zotero-style CSV export of a reference library and computes
the aggregates a publication dashboard draws: publications per year and type,
per language and publisher, the most productive contributors, and summary
statistics.

Input defaults to $BIBSTATS_INPUT, then stdin. The mapping profile defaults to
$BIBSTATS_PROFILE, then the best match for the header row, then zotero.

Examples:
  bibstats stats -i library.csv
  bibstats chart yearly -i library.csv --dimension category -e csv
  bibstats search -i library.csv --query "osmanlı tarihi" -o results.csv
  cat library.csv | bibstats classify --unclassified`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configDir == "" {
			configDir = os.Getenv("BIBSTATS_CONFIG_DIR")
		}
		if configDir != "" {
			mapping.SetConfigDir(configDir)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()
	setupLogger()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&inputPath, "input", "i", "", "Input file (default: $BIBSTATS_INPUT or stdin)")
	flags.StringVarP(&profileName, "profile", "p", "", "Mapping profile name (default: $BIBSTATS_PROFILE or detected)")
	flags.StringVar(&profileFile, "profile-file", "", "Custom profile YAML merged over the selected profile")
	flags.StringVarP(&formatName, "format", "f", "", "Input format (default: detected from the input, else csv)")
	flags.StringVarP(&encoding, "encoding", "e", "json", "Output encoding (json, yaml, csv, protojson)")
	flags.StringVar(&configDir, "config-dir", "", "Configuration directory (default: $BIBSTATS_CONFIG_DIR or ~/.bibstats)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(auditCmd)
}
