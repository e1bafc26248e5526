// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern resolves output paths for conversions. A Pattern is a
// template string with brace-delimited placeholders expanded against the
// source path and the current time; ResolveOutput combines an optional
// explicit output, an optional pattern, and the source path into exactly
// one destination.
package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrInvalidPattern marks a pattern that references an unrecognized
// placeholder. Validation happens at construction, before any rendering work.
var ErrInvalidPattern = errors.New("invalid output pattern")

// Variables maps each recognized placeholder to its description.
var Variables = map[string]string{
	"filename":  "Original filename without extension",
	"name":      "Alias for filename",
	"ext":       "Original file extension",
	"extension": "Alias for ext",
	"dir":       "Parent directory name",
	"dirname":   "Alias for dir",
	"path":      "Full directory path from cwd",
	"date":      "Current date (YYYY-MM-DD)",
	"time":      "Current time (HH-MM-SS)",
	"timestamp": "Current timestamp (YYYY-MM-DD_HH-MM-SS)",
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Pattern is a validated output path template.
type Pattern struct {
	raw string
}

// New validates the template and returns a reusable Pattern. Every
// placeholder in the template must be a recognized variable name.
func New(raw string) (*Pattern, error) {
	var invalid []string
	for _, m := range placeholderRe.FindAllStringSubmatch(raw, -1) {
		if _, ok := Variables[m[1]]; !ok {
			invalid = append(invalid, m[1])
		}
	}
	if len(invalid) > 0 {
		valid := make([]string, 0, len(Variables))
		for v := range Variables {
			valid = append(valid, v)
		}
		sort.Strings(valid)
		return nil, fmt.Errorf("%w: unknown variables: %s (valid: %s)",
			ErrInvalidPattern, strings.Join(invalid, ", "), strings.Join(valid, ", "))
	}
	return &Pattern{raw: raw}, nil
}

// String returns the raw template.
func (p *Pattern) String() string {
	return p.raw
}

// Apply expands the pattern against a source path. Relative path values are
// computed against baseDir (the current working directory when empty).
// A relative expansion that does not use {path} lands beside the source,
// preserving its original directory.
func (p *Pattern) Apply(source, baseDir string) string {
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}

	relDir := filepath.Dir(abs)
	if rel, err := filepath.Rel(baseDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
		relDir = filepath.Dir(rel)
	}

	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	ext := strings.TrimPrefix(filepath.Ext(abs), ".")
	now := time.Now()

	values := map[string]string{
		"filename":  stem,
		"name":      stem,
		"ext":       ext,
		"extension": ext,
		"dir":       filepath.Base(filepath.Dir(abs)),
		"dirname":   filepath.Base(filepath.Dir(abs)),
		"path":      relDir,
		"date":      now.Format("2006-01-02"),
		"time":      now.Format("15-04-05"),
		"timestamp": now.Format("2006-01-02_15-04-05"),
	}

	out := p.raw
	for key, value := range values {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}

	if filepath.IsAbs(out) {
		return out
	}
	if strings.Contains(p.raw, "{path}") {
		// Path was explicitly included; anchor at the base directory.
		return filepath.Join(baseDir, out)
	}
	return filepath.Join(filepath.Dir(abs), out)
}

// CommonPatterns returns a named set of useful templates for help text.
func CommonPatterns() map[string]string {
	return map[string]string{
		"suffix":    "{filename}.md",
		"hidden":    ".{filename}.md",
		"directory": ".documark/{filename}.md",
		"nested":    "{path}/.documark/{filename}.md",
		"flat":      "converted/{filename}.md",
		"timestamp": "{filename}_{timestamp}.md",
		"preserve":  "{path}/{filename}.md",
	}
}

// ResolveOutput determines the destination path for one source, with this
// precedence: explicit output file (non-batch only), then pattern expansion
// (placed inside an explicit output directory when one is given), then
// explicit output directory joined with the source stem, then the source's
// own directory with a .md extension.
func ResolveOutput(source, output, patternStr string, isBatch bool) (string, error) {
	if output != "" && !isBatch && !isDir(output) && filepath.Ext(output) != "" {
		return output, nil
	}

	if patternStr != "" {
		p, err := New(patternStr)
		if err != nil {
			return "", err
		}
		result := p.Apply(source, "")
		if output != "" && isDir(output) {
			// Anchor the expanded pattern's final segment in the output dir.
			result = filepath.Join(output, filepath.Base(result))
		}
		return result, nil
	}

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if output != "" {
		if isDir(output) || isBatch {
			return filepath.Join(output, stem+".md"), nil
		}
		return output, nil
	}
	return filepath.Join(filepath.Dir(source), stem+".md"), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
