// Package pipeline runs batches of meaning graphs through formatting and
// rendering.
//
// This package implements the complete import → format → render flow used
// by the CLI. Centralizing it keeps caching, concurrency and logging
// consistent for every command.
//
// # Architecture
//
// A run has two stages:
//
//  1. Format: turn every interpretation of every result into a
//     [tmr.Output], concurrently and with result caching
//  2. Render: produce artifacts in the requested formats (JSON, text,
//     DOT, SVG, PNG, PDF)
//
// Each stage can be run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(formatter, cache, nil, logger)
//	runner.ConfigHash = cfg.Fingerprint()
//	result, err := runner.Execute(ctx, results, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, _ := result.Artifact("svg", 0)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmrview/pkg/cache"
	apperr "github.com/matzehuels/tmrview/pkg/errors"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// DefaultConcurrency is the number of interpretations formatted at once
// when Options.Concurrency is zero.
const DefaultConcurrency = 4

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatText, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// IsBatchFormat reports whether format yields one artifact for the whole
// batch. Graph formats yield one artifact per interpretation.
func IsBatchFormat(format string) bool {
	return format == FormatJSON || format == FormatText
}

// Options configures a pipeline run.
type Options struct {
	// Concurrency bounds parallel formatting. Zero uses DefaultConcurrency.
	Concurrency int
	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool
	// Formats lists the artifacts to render. Defaults to JSON.
	Formats []string
	// Detailed lists uncolored attributes in graph node labels.
	Detailed bool
	// CacheSalt separates cache entries that would otherwise share a key.
	CacheSalt string

	Logger *log.Logger

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Outputs holds one formatted interpretation per input graph, in input
	// order.
	Outputs []tmr.Output

	// InputHash is the content hash of the input batch.
	InputHash string

	// Artifacts holds the rendered outputs in format order.
	Artifacts []Artifact

	Stats     Stats
	CacheInfo CacheInfo
}

// Artifact is one rendered output.
type Artifact struct {
	Format string
	// Index is the interpretation drawn, or -1 for batch formats.
	Index int
	Data  []byte
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Interpretations int
	Frames          int
	FormatTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	FormatHit bool // Whether the outputs came from cache
}

// Artifact returns the data of the artifact with the given format and
// index. Batch formats use index -1.
func (r *Result) Artifact(format string, index int) ([]byte, bool) {
	for _, a := range r.Artifacts {
		if a.Format == format && a.Index == index {
			return a.Data, true
		}
	}
	return nil, false
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return apperr.ValidateChoice("format", format, ValidFormats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Concurrency < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "concurrency must be >= 0, got %d", o.Concurrency)
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// FormatKeyOpts returns cache key options for a formatted batch.
func (o *Options) FormatKeyOpts(configHash, version string) cache.FormatKeyOpts {
	return cache.FormatKeyOpts{
		ConfigHash: configHash,
		Version:    version,
		Salt:       o.CacheSalt,
	}
}

