package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pmmif "github.com/stochasticsolutions/pmmif-go"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print library and format versions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pmmcheck %s (PMMIF format %s)\n", pmmif.Version(), pmmif.SpecVersion)
	},
}
