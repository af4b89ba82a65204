// Package cmd provides the CLI commands for internet-fijo.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "internet-fijo",
	Short: "Descriptive analysis of fixed internet accesses in Colombia",
	Long: `internet-fijo loads the "Internet Fijo - Accesos por tecnología y segmento"
dataset, cleans it, prints descriptive statistics and writes charts as PNG files.

Configuration comes from the environment (or a .env file):
  CSV_FILE, OUTPUT_DIR, CHART_WIDTH_IN, CHART_HEIGHT_IN, EXPORT_TABLES,
  LOG_LEVEL, LOG_FORMAT`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "internet-fijo version %s\n", Version)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with configuration overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}
