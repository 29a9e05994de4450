package main

import (
	"github.com/spf13/cobra"

	"github.com/nutripick/nutripick/internal/output"
	"github.com/nutripick/nutripick/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nutripick",
	Short: "Nutrition table photo selection for food products",
	Long: `Nutripick selects the best photo of a product's nutrition table.

Given per-image text evidence (nutrient mentions and nutrient name/value
pairs) and object-detection results, it decides which uploaded photo, if
any, should be proposed as the product's nutrition image in its main
language, and where to crop it.

Typical flow:
  nutripick evaluate ./dumps      # evaluate prediction dump documents
  nutripick evaluate --save ...   # persist generated insights to Postgres
  nutripick db start              # run a local Postgres for development`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.nutripick/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "nutripick home directory (default: ~/.nutripick)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
