// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/academic-metrics/internal/ingest"
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a combined record JSON file into per-record files",
	Long: `Split reads a JSON file containing an array of classified records and
writes one file per record into the split directory, for incremental
reprocessing of large batches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := configDefault(cmd, "split-dir", "ingest.split_dir", "data/split")
		n, err := ingest.Split(args[0], outDir)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d file(s) to %s\n", n, outDir)
		return nil
	},
}

func init() {
	splitCmd.Flags().String("split-dir", "data/split", "directory for split record files")
	rootCmd.AddCommand(splitCmd)
}
