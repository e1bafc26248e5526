// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "fmt"

// systemPrompt is the fixed system instruction for every extraction call.
const systemPrompt = "You are an expert at converting documents to clean, well-formatted Markdown. " +
	"Extract all text content, preserve structure, formatting, and semantic meaning. " +
	"For tables, use proper Markdown table syntax. " +
	"For images/figures, describe them briefly in italics. " +
	"Maintain heading hierarchy and list structures. " +
	"Return the result in the specified JSON format."

// DefaultUserPrompt builds the user instruction used when the caller does
// not supply a custom one.
func DefaultUserPrompt(filename string) string {
	return fmt.Sprintf("Convert this document '%s' to Markdown. "+
		"Extract all content while preserving the structure and formatting.", filename)
}
