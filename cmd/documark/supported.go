// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/documark/internal/pattern"
)

var supportedCmd = &cobra.Command{
	Use:   "supported",
	Short: "Show supported file types and output pattern variables",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		fmt.Fprintln(w, "Category\tExtensions")
		fmt.Fprintln(w, "Documents\t.pdf, .docx, .doc")
		fmt.Fprintln(w, "Images\t.png, .jpg, .jpeg, .gif, .bmp, .tiff, .tif, .webp")
		fmt.Fprintln(w, "Google Docs\t.gdoc, .gsheet, .gslides (and docs.google.com URLs)")
		fmt.Fprintln(w, "Direct text\t.html, .htm (no AI call)")
		w.Flush()

		fmt.Println("\nOutput pattern variables:")
		names := make([]string, 0, len(pattern.Variables))
		for name := range pattern.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		vw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(vw, "  {%s}\t%s\n", name, pattern.Variables[name])
		}
		vw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(supportedCmd)
}
