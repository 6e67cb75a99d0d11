package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	pmmif "github.com/stochasticsolutions/pmmif-go"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check .pmm files against the PMMIF 0.1 rules",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

// fileReport is the machine-readable form of one file's findings.
type fileReport struct {
	File        string            `json:"file" yaml:"file"`
	Diagnostics pmmif.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	failLevel := pmmif.Error
	if strict {
		failLevel = pmmif.Warning
	}

	var reports []fileReport
	failed := false
	for _, path := range args {
		doc, err := pmmif.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return err
		}
		diags := pmmif.Validate(doc)
		if diags.HasProblems(failLevel) {
			failed = true
		}
		reports = append(reports, fileReport{File: path, Diagnostics: diags})
	}

	if err := printReports(reports); err != nil {
		return err
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func printReports(reports []fileReport) error {
	switch outputFormat {
	case "json":
		out, err := json.MarshalIndent(reports, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "text":
		for _, r := range reports {
			if len(r.Diagnostics) == 0 {
				fmt.Printf("%s: ok\n", r.File)
				continue
			}
			for _, d := range r.Diagnostics {
				fmt.Printf("%s: %s\n", r.File, d)
			}
		}
	default:
		return fmt.Errorf("unknown output format %q (text|json|yaml)", outputFormat)
	}
	return nil
}
