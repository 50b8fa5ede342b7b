// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/academic-metrics/internal/aggregate"
	"github.com/pdiddy/academic-metrics/internal/export"
	"github.com/pdiddy/academic-metrics/internal/ingest"
	"github.com/pdiddy/academic-metrics/internal/store"
	"github.com/pdiddy/academic-metrics/internal/taxonomy"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate a batch of classified records into statistics",
	Long: `Run loads classified record JSON files from the input directory, drops
records already present in the document store, folds the rest into
per-category and global statistics with faculty identities deduplicated,
writes the five processed datasets to the output directory, and upserts
the finished aggregates into the store.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	ctx := context.Background()
	out := os.Stdout

	var tax *taxonomy.Taxonomy
	if cfg.Ingest.TaxonomyFile != "" {
		var err error
		tax, err = taxonomy.Load(cfg.Ingest.TaxonomyFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "taxonomy: %d categories\n", tax.Len())
	}

	pipeline := aggregate.NewPipeline(cfg.Resolver, tax)

	records, loadSummary, err := ingest.LoadDir(cfg.Ingest.InputDir, pipeline.Warnings())
	if err != nil {
		return err
	}
	ingest.NormalizeIDs(records)

	skipStore, _ := cmd.Flags().GetBool("no-store")
	var db *store.Store
	if !skipStore {
		db, err = store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close()

		known, err := db.KnownIDs(ctx)
		if err != nil {
			return err
		}
		records = ingest.FilterKnown(records, known, &loadSummary)
	}

	fmt.Fprintf(out, "loaded %d record(s), %d filtered as already stored, %d file(s) failed\n",
		loadSummary.Loaded, loadSummary.FilteredKnown, loadSummary.FilesFailed)

	summary, err := pipeline.Run(records)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "aggregated %d record(s): %d malformed, %d duplicate contribution(s) skipped\n",
		summary.Processed, summary.Malformed, summary.Duplicates)
	fmt.Fprintf(out, "resolved %d name-variant group(s)\n", len(pipeline.Resolution().Variations()))

	pipeline.Warnings().Report(os.Stderr)

	writer := export.NewWriter(cfg.Output)
	paths, err := writer.WriteAll(export.Aggregates{
		Categories:    pipeline.CategoryData(),
		FacultyStats:  pipeline.FacultyStats(),
		Articles:      pipeline.ArticleStats(),
		ArticleObject: pipeline.ArticleStatsObject(),
		GlobalFaculty: pipeline.GlobalFacultyStats(),
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	if db != nil {
		saved, err := db.SaveAggregates(ctx,
			pipeline.CategoryData(), pipeline.ArticleStats(), pipeline.GlobalFacultyStats())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "stored %d article(s), %d categor(ies), %d faculty\n",
			saved.Articles, saved.Categories, saved.Faculty)
	}

	return nil
}

// pipelineConfig resolves stage settings from flags and the config file.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Ingest: types.IngestConfig{
			InputDir:     configDefault(cmd, "input-dir", "ingest.input_dir", "data/input"),
			SplitDir:     configDefault(cmd, "split-dir", "ingest.split_dir", "data/split"),
			TaxonomyFile: configDefault(cmd, "taxonomy", "ingest.taxonomy_file", ""),
		},
		Store: types.StoreConfig{
			DataDir: configDefault(cmd, "data-dir", "store.data_dir", "data/store"),
		},
		Output: types.OutputConfig{
			OutputDir: configDefault(cmd, "output-dir", "output.output_dir", "output"),
			Format:    configDefault(cmd, "format", "output.format", "json"),
		},
	}

	cfg.Resolver = types.ResolverConfig{
		AcceptScore: viper.GetFloat64("resolver.accept_score"),
		ReviewScore: viper.GetFloat64("resolver.review_score"),
	}
	if cmd.Flags().Changed("accept-score") {
		cfg.Resolver.AcceptScore, _ = cmd.Flags().GetFloat64("accept-score")
	}
	if cmd.Flags().Changed("review-score") {
		cfg.Resolver.ReviewScore, _ = cmd.Flags().GetFloat64("review-score")
	}

	extend, _ := cmd.Flags().GetBool("extend")
	cfg.Output.Extend = extend || viper.GetBool("output.extend")

	return cfg
}

func init() {
	runCmd.Flags().String("input-dir", "data/input", "directory of classified record JSON files")
	runCmd.Flags().String("split-dir", "data/split", "directory for split record files")
	runCmd.Flags().String("taxonomy", "", "taxonomy vocabulary YAML (optional)")
	runCmd.Flags().String("data-dir", "data/store", "directory for the SQLite document store")
	runCmd.Flags().String("output-dir", "output", "directory for processed output files")
	runCmd.Flags().String("format", "json", "output format: json or yaml")
	runCmd.Flags().Bool("extend", false, "append to existing output files instead of overwriting")
	runCmd.Flags().Bool("no-store", false, "skip the document store (no known-ID filter, no final writes)")
	runCmd.Flags().Float64("accept-score", 0, "similarity score at which names merge (0 = default 0.90)")
	runCmd.Flags().Float64("review-score", 0, "lower bound of the manual-review band (0 = default 0.75)")

	rootCmd.AddCommand(runCmd)
}
