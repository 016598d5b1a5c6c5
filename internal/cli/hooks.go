package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmrview/pkg/observability"
)

// logHooks reports pipeline, cache and lexicon events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnFormatStart(_ context.Context, runID string, interpretations int) {
	h.logger.Debug("format start", "run", shortRunID(runID), "interpretations", interpretations)
}

func (h logHooks) OnFormatComplete(_ context.Context, runID string, interpretations, frames int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("format failed", "run", shortRunID(runID), "err", err, "duration", d)
		return
	}
	h.logger.Debug("format complete", "run", shortRunID(runID), "interpretations", interpretations, "frames", frames, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnLookup(_ context.Context, sense string, found bool, d time.Duration) {
	h.logger.Debug("lexicon lookup", "sense", sense, "found", found, "duration", d)
}

// RegisterHooks routes observability events to the CLI logger. The lines
// only appear at debug level.
func (c *CLI) RegisterHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetLexiconHooks(h)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
