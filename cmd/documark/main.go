// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the documark CLI, which converts
// binary documents (PDF, Word, images, Google Docs) to Markdown using a
// vision model for text extraction.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the documark CLI.
var rootCmd = &cobra.Command{
	Use:   "documark",
	Short: "Convert documents to Markdown using AI",
	Long: `documark converts binary document sources (PDF, Word, raster images,
Google Docs shortcuts) to Markdown. Pages are rendered to images and passed
to a vision model for text extraction; text-friendly formats like HTML are
converted directly without any AI call.

Conversions are cached: a source whose output is up to date is skipped
unless --force is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// API keys may live in a local .env; a missing file is fine.
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./documark.yaml or ~/.config/documark/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "conversion cache directory (default: ./.documark_cache)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("documark")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "documark"))
		}
	}

	viper.SetDefault("model", "gemini/gemini-2.5-flash")
	viper.SetDefault("dpi", 300)
	viper.SetDefault("workers", 4)

	viper.SetEnvPrefix("DOCUMARK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// cacheDir resolves the cache directory from flag, then config.
func cacheDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("cache-dir"); dir != "" {
		return dir
	}
	return viper.GetString("cache_dir")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
