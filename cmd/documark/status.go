// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/documark/internal/cache"
	"github.com/pdiddy/documark/internal/convert"
	"github.com/pdiddy/documark/internal/processor"
	"github.com/pdiddy/documark/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Check conversion status of files in a directory",
	Long: `Status scans a directory for supported files and reports which need
conversion and which are up to date, without converting anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("pattern", "", "output path pattern to check against")
	statusCmd.Flags().String("include", "", "comma-separated file patterns to include")
	statusCmd.Flags().String("exclude", "", "comma-separated file patterns to exclude")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	patternStr, _ := cmd.Flags().GetString("pattern")
	include, _ := cmd.Flags().GetString("include")
	exclude, _ := cmd.Flags().GetString("exclude")

	store, err := cache.NewStore(cacheDir())
	if err != nil {
		return err
	}
	registry := processor.NewRegistry(viper.GetInt("dpi"), http.DefaultClient)
	conv := convert.New(registry, store, nil, types.ConvertConfig{}, os.Stdout)

	needs, upToDate, err := conv.Status(dir, patternStr, splitPatterns(include), splitPatterns(exclude))
	if err != nil {
		return err
	}

	fmt.Printf("Conversion status for %s\n", dir)
	printStatusGroup("Files needing conversion", needs, dir, 10)
	printStatusGroup("Files up to date", upToDate, dir, 5)

	fmt.Println("\nSummary:")
	fmt.Printf("  Total files:     %d\n", len(needs)+len(upToDate))
	fmt.Printf("  Need conversion: %d\n", len(needs))
	fmt.Printf("  Up to date:      %d\n", len(upToDate))
	return nil
}

// printStatusGroup shows the first limit entries of a group, eliding the rest.
func printStatusGroup(title string, entries []convert.StatusEntry, dir string, limit int) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", title, len(entries))
	for i, e := range entries {
		if i >= limit {
			fmt.Printf("  ... and %d more\n", len(entries)-limit)
			break
		}
		rel, err := filepath.Rel(dir, e.Source)
		if err != nil {
			rel = e.Source
		}
		fmt.Printf("  %s -> %s\n", rel, filepath.Base(e.Output))
	}
}
