// Package cli implements the tmrview command-line interface.
//
// The CLI formats batches of analyzer results and shows them in the
// terminal, as JSON, or as relation graphs. It is built on cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - format: Format a batch into text, JSON, DOT, SVG, PNG or PDF
//   - view: Browse the formatted interpretations interactively
//   - cache: Clear or locate the result cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; status lines for humans go through the
// print helpers instead.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmrview/pkg/pipeline"
)

// newLogger creates a logger for w at level, with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// formatProgress times one format run.
type formatProgress struct {
	logger *log.Logger
	start  time.Time
}

func newFormatProgress(l *log.Logger) *formatProgress {
	return &formatProgress{logger: l, start: time.Now()}
}

// done logs the run summary, e.g.
// "Formatted 12 interpretations (1.234s) frames=40 cached=false".
func (p *formatProgress) done(stats pipeline.Stats, cached bool) {
	p.logger.Info(
		fmt.Sprintf("Formatted %s (%s)", plural(stats.Interpretations, "interpretation"), time.Since(p.start).Round(time.Millisecond)),
		"frames", stats.Frames,
		"cached", cached,
	)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the commands and the pipeline.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
