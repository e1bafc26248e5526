// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/documark/internal/cache"
	"github.com/pdiddy/documark/internal/convert"
	"github.com/pdiddy/documark/internal/llm"
	"github.com/pdiddy/documark/internal/processor"
	"github.com/pdiddy/documark/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <paths...>",
	Short: "Convert documents or directories to Markdown",
	Long: `Convert transforms document files into Markdown. Render-to-image formats
(PDF, Word, images, Google Docs) are rasterized and sent to the selected
vision model; direct-text formats (HTML) are converted locally.

Directories are only processed with --recursive. Multiple directories run
independently and their summaries are combined.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file path (single file) or directory (multiple files)")
	convertCmd.Flags().String("pattern", "", "output path pattern (e.g. '{path}/.{filename}.md')")
	convertCmd.Flags().BoolP("recursive", "r", false, "recursively convert files in directories")
	convertCmd.Flags().StringP("model", "m", "", "model string to use (default from config: gemini/gemini-2.5-flash)")
	convertCmd.Flags().IntP("dpi", "d", 0, "DPI for document rendering (72-600)")
	convertCmd.Flags().StringP("prompt", "p", "", "custom prompt for conversion")
	convertCmd.Flags().BoolP("force", "f", false, "force conversion even if files are up to date")
	convertCmd.Flags().IntP("workers", "w", 0, "concurrent workers for recursive conversion (1-16)")
	convertCmd.Flags().String("include", "", "comma-separated file patterns to include (e.g. '*.pdf,*.docx')")
	convertCmd.Flags().String("exclude", "", "comma-separated file patterns to exclude (e.g. 'temp/*,*.tmp')")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}

	// Credential precondition: fail before any rendering work.
	backend, err := llm.NewBackend(cfg.Model)
	if err != nil {
		return err
	}

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return err
	}

	registry := processor.NewRegistry(cfg.DPI, http.DefaultClient)
	conv := convert.New(registry, store, backend, cfg, os.Stdout)

	output, _ := cmd.Flags().GetString("output")
	patternStr, _ := cmd.Flags().GetString("pattern")
	prompt, _ := cmd.Flags().GetString("prompt")
	force, _ := cmd.Flags().GetBool("force")
	recursive, _ := cmd.Flags().GetBool("recursive")
	include, _ := cmd.Flags().GetString("include")
	exclude, _ := cmd.Flags().GetString("exclude")

	opts := convert.Options{
		Output:  output,
		Pattern: patternStr,
		Prompt:  prompt,
		Force:   force,
		Include: splitPatterns(include),
		Exclude: splitPatterns(exclude),
	}

	var files, dirs []string
	for _, arg := range args {
		if processor.IsURL(arg) {
			files = append(files, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("%w: %s", processor.ErrSourceNotFound, arg)
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
		} else {
			files = append(files, arg)
		}
	}

	ctx := context.Background()
	var overall types.Summary

	if len(dirs) > 0 && !recursive {
		fmt.Fprintln(os.Stdout, "Note: use --recursive to convert files in directories")
		for _, dir := range dirs {
			fmt.Fprintf(os.Stdout, "  skipping directory: %s\n", dir)
		}
		dirs = nil
	}

	for _, dir := range dirs {
		summary, err := conv.ConvertRecursive(ctx, dir, opts)
		if err != nil {
			return err
		}
		overall.Merge(summary)
	}
	if len(dirs) > 1 {
		fmt.Fprintf(os.Stdout, "\nOverall: %d converted, %d skipped, %d failed (total: %d)\n",
			overall.Successful, overall.Skipped, overall.Failed, overall.Total())
	}

	switch {
	case len(files) == 1 && len(dirs) == 0:
		if _, err := conv.ConvertFile(ctx, files[0], opts); err != nil {
			return err
		}
	case len(files) > 0:
		overall.Merge(conv.ConvertBatch(ctx, files, opts))
	}

	if overall.HasFailures() {
		return fmt.Errorf("%d conversion(s) failed", overall.Failed)
	}
	return nil
}

// convertConfig builds the run configuration from flags with viper-backed
// defaults, validating the documented bounds.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("model")
	}

	dpi, _ := cmd.Flags().GetInt("dpi")
	if dpi == 0 {
		dpi = viper.GetInt("dpi")
	}
	if dpi < 72 || dpi > 600 {
		return types.ConvertConfig{}, fmt.Errorf("dpi must be between 72 and 600, got %d", dpi)
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("workers")
	}
	if workers < 1 || workers > 16 {
		return types.ConvertConfig{}, fmt.Errorf("workers must be between 1 and 16, got %d", workers)
	}

	return types.ConvertConfig{
		Model:    model,
		DPI:      dpi,
		Workers:  workers,
		CacheDir: cacheDir(),
	}, nil
}

func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
