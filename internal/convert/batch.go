// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/documark/pkg/types"
)

// ConvertBatch converts a list of file sources under the concurrency bound.
// Every job's failure is caught and demoted to a failed result; siblings
// are unaffected. Results keep the input order regardless of execution
// order: each job writes to its own index.
func (c *Converter) ConvertBatch(ctx context.Context, sources []string, opts Options) types.Summary {
	opts.Batch = true
	start := time.Now()

	results := make([]types.Result, len(sources))
	sem := semaphore.NewWeighted(int64(c.workers))

	var g errgroup.Group
	for i, source := range sources {
		g.Go(func() error {
			results[i] = c.runJob(ctx, source, opts, sem)
			return nil
		})
	}
	g.Wait()

	summary := types.Summary{
		Elapsed: time.Since(start),
		Results: results,
	}
	for _, res := range results {
		switch res.Status {
		case types.StatusSuccess:
			summary.Successful++
		case types.StatusSkipped:
			summary.Skipped++
		case types.StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, types.Failure{
				Source: res.Source,
				Err:    res.Err,
			})
		}
	}

	c.printSummary(summary)
	return summary
}

// ConvertRecursive discovers eligible files under root and converts them as
// one batch.
func (c *Converter) ConvertRecursive(ctx context.Context, root string, opts Options) (types.Summary, error) {
	info, err := os.Stat(root)
	if err != nil {
		return types.Summary{}, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return types.Summary{}, fmt.Errorf("not a directory: %s", root)
	}

	files, err := c.Discover(root, opts.Include, opts.Exclude)
	if err != nil {
		return types.Summary{}, err
	}

	c.printf("Found %d files under %s\n", len(files), root)
	return c.ConvertBatch(ctx, files, opts), nil
}

// runJob is the per-item body of a batch run. The staleness check is cheap
// and runs unthrottled; only the render/extraction phase takes a semaphore
// slot.
func (c *Converter) runJob(ctx context.Context, source string, opts Options, sem *semaphore.Weighted) types.Result {
	output, err := c.resolveOutput(source, opts)
	if err != nil {
		return c.failed(source, err)
	}

	if !opts.Force && !c.cache.NeedsConversion(source, output) {
		c.printf("skipped: %s (up to date)\n", source)
		return types.Result{
			Status: types.StatusSkipped,
			Source: source,
			Output: output,
		}
	}

	if err := sem.Acquire(ctx, 1); err != nil {
		return c.failed(source, err)
	}
	defer sem.Release(1)

	res, err := c.ConvertFile(ctx, source, opts)
	if err != nil {
		return c.failed(source, err)
	}
	return res
}

func (c *Converter) failed(source string, err error) types.Result {
	c.printf("failed: %s (%v)\n", source, err)
	return types.Result{
		Status: types.StatusFailed,
		Source: source,
		Err:    err.Error(),
	}
}

func (c *Converter) printSummary(s types.Summary) {
	if len(s.Failures) > 0 {
		c.printf("\nFailed conversions:\n")
		for _, f := range s.Failures {
			c.printf("  %s: %s\n", f.Source, f.Err)
		}
	}
	c.printf("\nBatch summary: %d converted, %d skipped, %d failed (total: %d) in %.1fs\n",
		s.Successful, s.Skipped, s.Failed, s.Total(), s.Elapsed.Seconds())
}
