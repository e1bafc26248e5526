// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates document conversion: processor selection,
// cache consultation, the render/extract pipeline, and concurrency-bounded
// batch and recursive runs with per-item failure isolation.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/documark/internal/cache"
	"github.com/pdiddy/documark/internal/imaging"
	"github.com/pdiddy/documark/internal/llm"
	"github.com/pdiddy/documark/internal/pattern"
	"github.com/pdiddy/documark/internal/processor"
	"github.com/pdiddy/documark/pkg/types"
)

// defaultWorkers bounds batch concurrency when none is configured.
const defaultWorkers = 4

// Options carries per-request conversion parameters.
type Options struct {
	// Output is an explicit output file or directory.
	Output string

	// Pattern is an output path template (see package pattern).
	Pattern string

	// Prompt overrides the default extraction user instruction.
	Prompt string

	// Force re-renders regardless of cache state.
	Force bool

	// Batch marks the request as part of a batch/recursive run, which
	// treats an explicit output as a directory.
	Batch bool

	// Include and Exclude are glob patterns for recursive discovery.
	Include []string
	Exclude []string
}

// Converter drives conversions. Progress is reported through an explicit
// writer; the Converter holds no global state.
type Converter struct {
	registry *processor.Registry
	cache    *cache.Store
	backend  llm.Backend
	model    string
	workers  int

	mu  sync.Mutex
	out io.Writer
}

// New assembles a Converter. backend may be nil when every expected source
// is direct-text; a render-to-image source will then fail its job.
func New(registry *processor.Registry, store *cache.Store, backend llm.Backend, cfg types.ConvertConfig, out io.Writer) *Converter {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if out == nil {
		out = io.Discard
	}
	return &Converter{
		registry: registry,
		cache:    store,
		backend:  backend,
		model:    cfg.Model,
		workers:  workers,
		out:      out,
	}
}

// Registry exposes the processor registry for discovery defaults.
func (c *Converter) Registry() *processor.Registry {
	return c.registry
}

// printf serializes progress lines; batch jobs report concurrently.
func (c *Converter) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// resolveOutput determines the destination for one source. URLs have no
// filesystem location to derive a default from, so they require an explicit
// output path.
func (c *Converter) resolveOutput(source string, opts Options) (string, error) {
	if processor.IsURL(source) {
		if opts.Output == "" {
			return "", fmt.Errorf("output path required for URL source %s", source)
		}
		return opts.Output, nil
	}
	return pattern.ResolveOutput(source, opts.Output, opts.Pattern, opts.Batch)
}

// ConvertFile converts a single source to Markdown. The cache is consulted
// first: an up-to-date source returns the previously written output as a
// skip. Errors surface to the caller; batch entry points demote them to
// failed results instead.
func (c *Converter) ConvertFile(ctx context.Context, source string, opts Options) (types.Result, error) {
	output, err := c.resolveOutput(source, opts)
	if err != nil {
		return types.Result{}, err
	}

	isURL := processor.IsURL(source)
	if !isURL {
		if _, err := os.Stat(source); err != nil {
			return types.Result{}, fmt.Errorf("%w: %s", processor.ErrSourceNotFound, source)
		}

		if !opts.Force && !c.cache.NeedsConversion(source, output) {
			existing, err := os.ReadFile(output)
			if err != nil {
				return types.Result{}, fmt.Errorf("reading up-to-date output %s: %w", output, err)
			}
			c.printf("skipped: %s (up to date)\n", source)
			return types.Result{
				Status:  types.StatusSkipped,
				Source:  source,
				Output:  output,
				Content: string(existing),
			}, nil
		}
	}

	proc, err := c.registry.Select(source)
	if err != nil {
		return types.Result{}, err
	}

	content, err := proc.Content(ctx, source)
	if err != nil {
		return types.Result{}, err
	}

	markdown, err := c.extract(ctx, source, content, opts)
	if err != nil {
		return types.Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return types.Result{}, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(output, []byte(markdown), 0o644); err != nil {
		return types.Result{}, fmt.Errorf("writing output %s: %w", output, err)
	}

	if !isURL {
		if _, err := c.cache.Save(source, output, ""); err != nil {
			// The cache is advisory; a failed record costs a future
			// reconversion, nothing more.
			c.printf("warning: could not record conversion of %s: %v\n", source, err)
		}
	}

	c.printf("converted: %s -> %s\n", source, output)
	return types.Result{
		Status:  types.StatusSuccess,
		Source:  source,
		Output:  output,
		Content: markdown,
	}, nil
}

// extract turns rendered content into Markdown. Direct text passes through;
// page images go to the extraction backend.
func (c *Converter) extract(ctx context.Context, source string, content processor.Content, opts Options) (string, error) {
	if content.IsText() {
		return content.Text, nil
	}

	if c.backend == nil {
		return "", fmt.Errorf("%w: no extraction backend configured for %s", llm.ErrExtraction, source)
	}

	images, err := imaging.EncodePages(content.Pages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", processor.ErrRender, err)
	}

	prompt := opts.Prompt
	if prompt == "" {
		name := filepath.Base(source)
		if processor.IsURL(source) {
			name = "document"
		}
		prompt = llm.DefaultUserPrompt(name)
	}

	markdown, warnings, err := c.backend.Extract(ctx, llm.Request{
		Model:      c.model,
		UserPrompt: prompt,
		Images:     images,
	})
	if err != nil {
		return "", err
	}
	for _, w := range warnings {
		c.printf("warning: %s: %s\n", source, w)
	}
	return markdown, nil
}
