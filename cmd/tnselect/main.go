// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tnselect CLI.
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

// rootCmd is the base command for the tnselect CLI.
var rootCmd = &cobra.Command{
	Use:   "tnselect",
	Short: "Select diverse trivalent-nitrogen molecules for parameterization",
	Long: `tnselect curates a chemically diverse, size-biased subset of molecules
that carry a single invertible trivalent nitrogen, for downstream force-field
parameterization. It consumes annotated molecule data from external chemistry
tooling and never performs chemistry itself.

Each pipeline stage is a subcommand: generate extracts nitrogen-center
descriptor records from annotated molecules and persists them; select bins
the records by total Wiberg bond order and bonding fingerprint and keeps the
smallest molecules of each bin; analyze summarizes a selection; plothist
builds Wiberg bond order histograms from descriptor CSV files.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tnselect.yaml or ~/.config/tnselect/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tnselect")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tnselect"))
		}
	}

	viper.SetEnvPrefix("TNSELECT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
