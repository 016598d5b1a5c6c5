package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tmrview/pkg/render"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// Options configures relation graph rendering.
type Options struct {
	// Detailed lists each frame's uncolored attributes in its node label.
	// When false, only the frame ID is shown.
	Detailed bool
}

// fallbackFill is used for frames without a parseable color.
const fallbackFill = "white"

// ToDOT converts a formatted interpretation to Graphviz DOT format.
// Each frame becomes a node filled with its entity color; every attribute
// whose value names another frame becomes an edge labelled with the
// attribute key. The rejected-words frame is drawn dashed and grey.
//
// Nodes follow the frame order of out. Edges follow the required,
// optional, auxiliary group order and sorted keys within a group, so the
// output is deterministic.
func ToDOT(out tmr.Output, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph TMR {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[string]bool, len(out.Frames))
	for _, f := range out.Frames {
		ids[f.ID] = true
	}

	for _, f := range out.Frames {
		label := fmtLabel(f, opts.Detailed)
		attrs := fmtAttrs(f, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", f.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, f := range out.Frames {
		if f.IsRejected() {
			continue
		}
		for _, e := range frameEdges(f, ids) {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", f.ID, e.to, e.key)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type edge struct {
	key string
	to  string
}

// frameEdges returns the cross-references of f that point at known frames.
func frameEdges(f *tmr.Frame, ids map[string]bool) []edge {
	var edges []edge
	for _, g := range groups(f) {
		for _, k := range g.Keys() {
			a := g[k]
			if a.Color == "" || !ids[a.Value] {
				continue
			}
			edges = append(edges, edge{key: k, to: a.Value})
		}
	}
	return edges
}

func groups(f *tmr.Frame) []tmr.Group {
	return []tmr.Group{f.Attributes.Required, f.Attributes.Optional, f.Attributes.Auxiliary}
}

func fmtLabel(f *tmr.Frame, detailed bool) string {
	if !detailed {
		return f.ID
	}

	var parts []string
	for _, g := range groups(f) {
		for _, k := range g.Keys() {
			a := g[k]
			if a.Color != "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(a.Value, "\n", ", ")))
		}
	}
	if len(parts) == 0 {
		return f.ID
	}
	return f.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(f *tmr.Frame, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if f.IsRejected() {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if fill := fillColor(f.Color); fill != fallbackFill {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

// fillColor converts a frame's hsla color to the opaque hex Graphviz needs.
func fillColor(color string) string {
	c, ok := tmr.ParseHSLA(color)
	if !ok {
		return fallbackFill
	}
	return c.Hex()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderFormat(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
