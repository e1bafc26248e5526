// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/pdiddy/documark/internal/pattern"
)

// DefaultExcludes are the discovery exclude globs used when none are given:
// dotfiles anywhere plus interpreter cache artifacts.
var DefaultExcludes = []string{".*", "*/.*", "__pycache__/*", "*.pyc"}

// Discover walks root recursively and returns the files matching the
// include globs and not matching the exclude globs, in lexical walk order.
// Globs are applied to the path relative to root with fnmatch semantics:
// "*" and "?" match any characters including the path separator, so "*.pdf"
// finds files in subdirectories, ".*" excludes whole dot-directory trees,
// and "temp/*" excludes everything under temp at any depth.
func (c *Converter) Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = c.registry.IncludeGlobs()
	}
	if len(exclude) == 0 {
		exclude = DefaultExcludes
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(include, rel) || matchAny(exclude, rel) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if globRegexp(pat).MatchString(rel) {
			return true
		}
	}
	return false
}

var globCache sync.Map

// globRegexp compiles a glob with separator-crossing wildcards. Compiled
// patterns are cached; discovery applies the same small set to every file.
func globRegexp(pat string) *regexp.Regexp {
	if cached, ok := globCache.Load(pat); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(translateGlob(pat))
	if err != nil {
		re = regexp.MustCompile("^" + regexp.QuoteMeta(pat) + "$")
	}
	globCache.Store(pat, re)
	return re
}

// translateGlob converts a glob into an anchored regular expression. "*"
// becomes ".*" and "?" becomes ".", both crossing "/"; bracket classes pass
// through with "!" negation rewritten.
func translateGlob(pat string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pat); i++ {
		switch c := pat[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pat) && (pat[j] == '!' || pat[j] == '^') {
				j++
			}
			if j < len(pat) && pat[j] == ']' {
				j++
			}
			for j < len(pat) && pat[j] != ']' {
				j++
			}
			if j >= len(pat) {
				// Unterminated class; treat the bracket literally.
				b.WriteString(regexp.QuoteMeta(string(c)))
				continue
			}
			seq := pat[i+1 : j]
			if strings.HasPrefix(seq, "!") {
				seq = "^" + seq[1:]
			}
			b.WriteString("[" + seq + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// StatusEntry pairs a discovered source with its resolved output path.
type StatusEntry struct {
	Source string
	Output string
}

// Status reports which files under root need conversion and which are up to
// date, without converting anything.
func (c *Converter) Status(root, patternStr string, include, exclude []string) (needs, upToDate []StatusEntry, err error) {
	files, err := c.Discover(root, include, exclude)
	if err != nil {
		return nil, nil, err
	}

	for _, file := range files {
		output, err := pattern.ResolveOutput(file, "", patternStr, true)
		if err != nil {
			return nil, nil, err
		}
		entry := StatusEntry{Source: file, Output: output}
		if c.cache.NeedsConversion(file, output) {
			needs = append(needs, entry)
		} else {
			upToDate = append(upToDate, entry)
		}
	}
	return needs, upToDate, nil
}
