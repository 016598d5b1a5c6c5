package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tmrview/pkg/buildinfo"
	"github.com/matzehuels/tmrview/pkg/cache"
	apperr "github.com/matzehuels/tmrview/pkg/errors"
	tmrio "github.com/matzehuels/tmrview/pkg/io"
	"github.com/matzehuels/tmrview/pkg/observability"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// cacheKeyType labels cache events from this package.
const cacheKeyType = "format"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share
// one Runner with different options.
type Runner struct {
	Formatter *tmr.Formatter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// ConfigHash identifies the formatter configuration in cache keys.
	// Leave it empty only when the formatter uses the defaults.
	ConfigHash string

	// TTL is how long formatted batches stay cached. Zero uses
	// cache.TTLFormat.
	TTL time.Duration
}

// NewRunner creates a runner.
// If formatter is nil, one with the zero configuration is used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(formatter *tmr.Formatter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if formatter == nil {
		formatter = tmr.NewFormatter(tmr.Config{})
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Formatter: formatter,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Execute runs the complete format → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, results []tmr.Result, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", shortID(result.RunID))

	// Stage 1: Format
	formatStart := time.Now()
	outputs, inputHash, hit, err := r.format(ctx, result.RunID, results, opts)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	result.Outputs = outputs
	result.InputHash = inputHash
	result.CacheInfo.FormatHit = hit
	result.Stats.FormatTime = time.Since(formatStart)
	result.Stats.Interpretations = len(outputs)
	result.Stats.Frames = countFrames(outputs)

	logger.Info("formatted interpretations",
		"interpretations", result.Stats.Interpretations,
		"frames", result.Stats.Frames,
		"cached", hit,
		"duration", result.Stats.FormatTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, outputs, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FormatWithCacheInfo formats every interpretation of results, using the
// cache, and reports whether the outputs came from cache.
func (r *Runner) FormatWithCacheInfo(ctx context.Context, results []tmr.Result, opts Options) ([]tmr.Output, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	outputs, _, hit, err := r.format(ctx, uuid.NewString(), results, opts)
	return outputs, hit, err
}

// Format is a convenience wrapper that calls FormatWithCacheInfo and discards the cache hit info.
func (r *Runner) Format(ctx context.Context, results []tmr.Result, opts Options) ([]tmr.Output, error) {
	outputs, _, err := r.FormatWithCacheInfo(ctx, results, opts)
	return outputs, err
}

func (r *Runner) format(ctx context.Context, runID string, results []tmr.Result, opts Options) ([]tmr.Output, string, bool, error) {
	inputData, err := json.Marshal(results)
	if err != nil {
		return nil, "", false, apperr.Wrap(apperr.ErrCodeInternal, err, "serialize input for cache key")
	}
	inputHash := cache.Hash(inputData)
	cacheKey := r.Keyer.FormatKey(inputHash, opts.FormatKeyOpts(r.ConfigHash, buildinfo.CacheVersion()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			opts.Logger.Warn("cache read failed", "err", err)
		case hit:
			outputs, err := tmrio.ReadOutputs(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKeyType)
				return outputs, inputHash, true, nil
			}
			// A corrupt entry is recomputed and overwritten.
			opts.Logger.Debug("discarding unreadable cache entry", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	outputs, err := r.formatAll(ctx, runID, tmr.Inputs(results), opts.Concurrency)
	if err != nil {
		return nil, "", false, err
	}

	var buf bytes.Buffer
	if err := tmrio.WriteOutputs(outputs, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl()); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, buf.Len())
		}
	}

	return outputs, inputHash, false, nil
}

// formatAll formats inputs with at most limit goroutines. Each worker
// writes only its own slot, so the output order equals the input order.
func (r *Runner) formatAll(ctx context.Context, runID string, inputs []tmr.Input, limit int) (outputs []tmr.Output, err error) {
	start := time.Now()
	observability.Pipeline().OnFormatStart(ctx, runID, len(inputs))
	defer func() {
		observability.Pipeline().OnFormatComplete(ctx, runID, len(outputs), countFrames(outputs), time.Since(start), err)
	}()

	results := make([]tmr.Output, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Formatter.Format(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLFormat
}

func countFrames(outputs []tmr.Output) int {
	n := 0
	for _, o := range outputs {
		n += len(o.Frames)
	}
	return n
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
