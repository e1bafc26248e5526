// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package processor dispatches a source (file path or URL) to the adapter
// that can render it. Adapters come in two families: render-to-image
// produces an ordered sequence of page images that need the extraction
// call, and direct-text produces Markdown-ready text with no AI involved.
// Selection is first-match over an ordered list.
package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupportedSource means no registered adapter can handle the source.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrSourceNotFound means the source file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrRender means an adapter could not produce pages or text.
	ErrRender = errors.New("render failed")
)

// Content is what an adapter produces: either direct text or an ordered
// page-image sequence, never both.
type Content struct {
	// Text is Markdown-ready text from a direct-text adapter.
	Text string

	// Pages are rendered page images from a render-to-image adapter.
	Pages []image.Image
}

// IsText reports whether the content is direct text.
func (c Content) IsText() bool {
	return c.Pages == nil
}

// Processor is one capability-providing adapter.
type Processor interface {
	// CanProcess reports whether this adapter handles the source.
	CanProcess(source string) bool

	// Content renders the source into text or page images.
	Content(ctx context.Context, source string) (Content, error)

	// RequiresLLM reports whether the produced content needs the
	// extraction call.
	RequiresLLM() bool

	// Extensions lists the file extensions (with dots) this adapter
	// accepts. Empty for URL-only adapters.
	Extensions() []string
}

// Registry holds the ordered adapter list.
type Registry struct {
	procs []Processor
}

// NewRegistry builds the default adapter set: PDF, Word, raster images,
// HTML, and Google Docs shortcuts, in that order. dpi controls
// rasterization resolution; client is used for cloud-document downloads.
func NewRegistry(dpi int, client *http.Client) *Registry {
	pdf := NewPDFProcessor(dpi)
	return &Registry{procs: []Processor{
		pdf,
		NewDocxProcessor(pdf),
		NewImageProcessor(),
		NewHTMLProcessor(),
		NewGoogleDocsProcessor(pdf, client),
	}}
}

// Select returns the first adapter that can process the source. When none
// match, the error enumerates every supported extension.
func (r *Registry) Select(source string) (Processor, error) {
	for _, p := range r.procs {
		if p.CanProcess(source) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (supported: %s)",
		ErrUnsupportedSource, source, strings.Join(r.Extensions(), ", "))
}

// Extensions returns the sorted union of all registered extensions.
func (r *Registry) Extensions() []string {
	seen := map[string]bool{}
	for _, p := range r.procs {
		for _, ext := range p.Extensions() {
			seen[ext] = true
		}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IncludeGlobs returns default include patterns for file discovery: one
// glob per supported extension, in both lower and upper case.
func (r *Registry) IncludeGlobs() []string {
	var globs []string
	for _, ext := range r.Extensions() {
		globs = append(globs, "*"+ext, "*"+strings.ToUpper(ext))
	}
	return globs
}

// IsURL reports whether the source is an http(s) URL rather than a path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// hasExtension reports whether the source is a non-URL path with one of the
// given extensions.
func hasExtension(source string, exts []string) bool {
	if IsURL(source) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(source))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
