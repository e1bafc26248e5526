// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/documark/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [cache-dir]",
	Short: "Remove stale conversion cache records",
	Long: `Clean removes cache records whose source file no longer exists and,
with --older-than, records older than the given number of days. Corrupted
records are always removed. The cache directory may be given as an argument;
otherwise the configured one is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Int("older-than", 0, "also remove records older than N days")
	cleanCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetInt("older-than")
	yes, _ := cmd.Flags().GetBool("yes")

	dir := cacheDir()
	if len(args) > 0 {
		dir = args[0]
	}
	store, err := cache.NewStore(dir)
	if err != nil {
		return err
	}

	fmt.Printf("Cleaning cache at %s\n", store.Dir())
	if olderThan > 0 {
		fmt.Printf("Removing records for deleted sources and records older than %d day(s)\n", olderThan)
	} else {
		fmt.Println("Removing records for deleted sources")
	}

	if !yes && !confirm("Continue?") {
		fmt.Println("Cancelled")
		return nil
	}

	removed, err := store.Clean(olderThan)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cache record(s)\n", removed)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
