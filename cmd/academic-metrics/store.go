// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/academic-metrics/internal/store"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect the document store",
	Long: `Store reports what the SQLite document store currently holds: stored
article, category, and faculty counts, and optionally the full set of
known article identifiers used to pre-filter incoming batches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := configDefault(cmd, "data-dir", "store.data_dir", "data/store")

		db, err := store.Open(types.StoreConfig{DataDir: dataDir})
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		articles, categories, faculty, err := db.Counts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("store: %s\n", db.Path())
		fmt.Printf("articles:   %d\n", articles)
		fmt.Printf("categories: %d\n", categories)
		fmt.Printf("faculty:    %d\n", faculty)

		if listIDs, _ := cmd.Flags().GetBool("ids"); listIDs {
			known, err := db.KnownIDs(ctx)
			if err != nil {
				return err
			}
			for _, id := range known.Sorted() {
				fmt.Println(id)
			}
		}
		return nil
	},
}

func init() {
	storeCmd.Flags().String("data-dir", "data/store", "directory for the SQLite document store")
	storeCmd.Flags().Bool("ids", false, "list stored article identifiers")
	rootCmd.AddCommand(storeCmd)
}
