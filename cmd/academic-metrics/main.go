// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the academic-metrics CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the academic-metrics CLI.
var rootCmd = &cobra.Command{
	Use:   "academic-metrics",
	Short: "Category and faculty statistics from classified publication records",
	Long: `academic-metrics folds batches of classified publication records into
per-category and global statistics: publication counts, citation totals,
and faculty/department participation, with faculty identities deduplicated
across name-variant spellings of the same person.

Classification and data acquisition happen upstream; this tool consumes
their output (classified JSON record batches), aggregates it, and writes
the processed datasets to JSON files and a SQLite document store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./academic-metrics.yaml or ~/.config/academic-metrics/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("academic-metrics")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "academic-metrics"))
		}
	}

	viper.SetEnvPrefix("ACADEMIC_METRICS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configDefault returns the flag value if set, otherwise the config file
// value for key, otherwise fallback.
func configDefault(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
