package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pmmcheck",
	Short: "Validate and canonicalize PMMIF metadata files",
	Long: `pmmcheck works with PMMIF (.pmm) files: JSON metadata describing
tabular datasets for predictive modelling.

Examples:
  # Validate files, printing every diagnostic
  pmmcheck validate hillstrom.pmm victorlo.pmm

  # Treat warnings as failures, emit machine-readable findings
  pmmcheck validate --strict --format json data/*.pmm

  # Rewrite a file in canonical form
  pmmcheck fmt --write hillstrom.pmm`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	strict       bool
	outputFormat string
	writeInPlace bool
	checkOnly    bool
)

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	validateCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text|json|yaml")
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Rewrite files in place instead of printing")
	fmtCmd.Flags().BoolVar(&checkOnly, "check", false, "Report files that are not in canonical form, exit 1 if any")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}
