// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for documark: conversion
// results, batch summaries, and configuration passed between the CLI
// and the conversion pipeline.
package types

import "time"

// ConversionStatus is the outcome tag for a single conversion job.
type ConversionStatus string

const (
	// StatusSuccess means the source was rendered, extracted, and written.
	StatusSuccess ConversionStatus = "success"

	// StatusSkipped means the cache reported the output as up to date.
	StatusSkipped ConversionStatus = "skipped"

	// StatusFailed means the job raised an error that was isolated to it.
	StatusFailed ConversionStatus = "failed"
)

// Result is the outcome of one conversion job.
type Result struct {
	// Status tags the outcome: success, skipped, or failed.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Source is the path or URL that was converted.
	Source string `json:"source" yaml:"source"`

	// Output is the resolved destination path. Empty when resolution
	// itself failed.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Content is the produced (or previously written) Markdown.
	// Unset for failed results.
	Content string `json:"-" yaml:"-"`

	// Err describes the failure for StatusFailed results.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failure pairs a source with the error text that sank its job.
type Failure struct {
	Source string `json:"source" yaml:"source"`
	Err    string `json:"error" yaml:"error"`
}

// Summary aggregates the results of a batch or recursive conversion run.
type Summary struct {
	Successful int           `json:"successful" yaml:"successful"`
	Failed     int           `json:"failed" yaml:"failed"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`

	// Failures lists every failed job with its error text.
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Results holds the per-job outcomes in discovery order.
	Results []Result `json:"results,omitempty" yaml:"results,omitempty"`
}

// Total returns the number of jobs in the run.
func (s Summary) Total() int {
	return s.Successful + s.Failed + s.Skipped
}

// HasFailures reports whether any job failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Merge folds another summary into this one. Used when several top-level
// directories run independently and the CLI reports an overall total.
func (s *Summary) Merge(other Summary) {
	s.Successful += other.Successful
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	if other.Elapsed > s.Elapsed {
		s.Elapsed = other.Elapsed
	}
	s.Failures = append(s.Failures, other.Failures...)
	s.Results = append(s.Results, other.Results...)
}

// ConvertConfig carries the tunables for a conversion run.
type ConvertConfig struct {
	// Model is the provider-prefixed model string for the extraction call.
	Model string `yaml:"model"`

	// DPI is the rasterization resolution for render-to-image processors.
	DPI int `yaml:"dpi"`

	// Workers bounds how many jobs may be in their render/extraction
	// phase concurrently during batch and recursive conversion.
	Workers int `yaml:"workers"`

	// CacheDir is the conversion cache directory.
	CacheDir string `yaml:"cache_dir"`
}
