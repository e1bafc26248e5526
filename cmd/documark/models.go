// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/documark/internal/llm"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List commonly used model strings and their API key variables",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range llm.Providers() {
			fmt.Printf("%s (API key: %s)\n", p.Name, p.EnvKey)
			for _, m := range p.Models {
				fmt.Printf("  %s\n", m)
			}
			fmt.Println()
		}
		fmt.Println("Select a model with --model; bare model names default to OpenAI.")
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
