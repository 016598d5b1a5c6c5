package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tmrio "github.com/matzehuels/tmrview/pkg/io"
	"github.com/matzehuels/tmrview/pkg/render/nodelink"
	"github.com/matzehuels/tmrview/pkg/render/text"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// Render generates artifacts in the requested formats. Batch formats
// (JSON, text) produce one artifact covering every output; graph formats
// produce one artifact per output, in output order.
func (r *Runner) Render(ctx context.Context, outputs []tmr.Output, opts Options) ([]Artifact, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return Render(ctx, outputs, opts)
}

// Render generates artifacts without a runner.
func Render(ctx context.Context, outputs []tmr.Output, opts Options) ([]Artifact, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	var artifacts []Artifact
	for _, format := range opts.Formats {
		if IsBatchFormat(format) {
			data, err := renderBatch(outputs, format)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts = append(artifacts, Artifact{Format: format, Index: -1, Data: data})
			continue
		}

		for i, out := range outputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := renderGraph(ctx, out, format, nodelink.Options{Detailed: opts.Detailed})
			if err != nil {
				return nil, fmt.Errorf("render %s for interpretation %d: %w", format, i, err)
			}
			artifacts = append(artifacts, Artifact{Format: format, Index: i, Data: data})
		}
	}
	return artifacts, nil
}

func renderBatch(outputs []tmr.Output, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := tmrio.WriteOutputs(outputs, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatText:
		parts := make([]string, len(outputs))
		for i, out := range outputs {
			parts[i] = text.Output(out)
		}
		return []byte(strings.Join(parts, "\n\n")), nil
	default:
		return nil, fmt.Errorf("unsupported batch format: %s", format)
	}
}

func renderGraph(ctx context.Context, out tmr.Output, format string, opts nodelink.Options) ([]byte, error) {
	dot := nodelink.ToDOT(out, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", format)
	}
}
