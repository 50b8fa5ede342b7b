// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IngestConfig holds settings for loading classified record batches.
type IngestConfig struct {
	// InputDir is the directory of classified record JSON files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// SplitDir is the directory split files are written to.
	SplitDir string `json:"split_dir" yaml:"split_dir"`

	// TaxonomyFile is the path to the taxonomy vocabulary YAML. Optional;
	// when empty, category paths are not checked against a vocabulary.
	TaxonomyFile string `json:"taxonomy_file,omitempty" yaml:"taxonomy_file,omitempty"`
}

// ResolverConfig holds the name-identity similarity policy knobs.
type ResolverConfig struct {
	// AcceptScore is the normalized similarity score at or above which
	// two names are judged the same identity even when no structural
	// rule matches (default 0.90).
	AcceptScore float64 `json:"accept_score" yaml:"accept_score"`

	// ReviewScore is the lower bound of the indeterminate band. Pairs
	// scoring in [ReviewScore, AcceptScore) are treated as distinct and
	// reported for manual review (default 0.75).
	ReviewScore float64 `json:"review_score" yaml:"review_score"`
}

// Defaults fills unset thresholds.
func (c ResolverConfig) Defaults() ResolverConfig {
	if c.AcceptScore <= 0 {
		c.AcceptScore = 0.90
	}
	if c.ReviewScore <= 0 {
		c.ReviewScore = 0.75
	}
	return c
}

// StoreConfig holds settings for the document store.
type StoreConfig struct {
	// DataDir is the directory containing the SQLite database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// OutputConfig holds settings for serializing finished aggregates.
type OutputConfig struct {
	// OutputDir is the directory output files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the output encoding: json or yaml (default json).
	Format string `json:"format" yaml:"format"`

	// Extend merges new entries onto existing output files instead of
	// overwriting them.
	Extend bool `json:"extend" yaml:"extend"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}
