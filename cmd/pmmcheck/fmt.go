package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pmmif "github.com/stochasticsolutions/pmmif-go"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt FILE...",
	Short: "Rewrite .pmm files in canonical form",
	Long: `fmt parses each file and re-serializes it canonically: mandatory keys
first, optional keys alphabetical, 4-space indentation. Without --write the
canonical text goes to stdout. With --check no output is rewritten; files
that differ from their canonical form are listed and the exit code is 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func runFmt(cmd *cobra.Command, args []string) error {
	drifted := false
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return err
		}
		doc, err := pmmif.Parse(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return err
		}
		out, err := pmmif.Serialize(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if checkOnly {
			if !bytes.Equal(raw, out) {
				fmt.Printf("%s: not canonical\n", path)
				drifted = true
			}
			continue
		}
		if writeInPlace {
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return err
			}
			continue
		}
		os.Stdout.Write(out)
	}
	if drifted {
		os.Exit(1)
	}
	return nil
}
