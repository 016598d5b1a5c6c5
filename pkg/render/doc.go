// Package render turns formatted meaning graphs into artifacts for people.
//
// # Overview
//
// Formatting ([tmr.Formatter.Format]) produces a display structure; the
// subpackages present it:
//
//   - [nodelink]: the frames as a Graphviz relation graph (DOT, SVG, PNG,
//     and PDF through [ToPDF])
//   - [text]: colored sentences and attribute tables for the terminal
//
// # Format Conversion
//
// [ToPDF] converts SVG to PDF using the external rsvg-convert tool (from
// librsvg).
//
//	dot := nodelink.ToDOT(out, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [tmr.Formatter.Format]: github.com/matzehuels/tmrview/pkg/tmr#Formatter.Format
// [nodelink]: github.com/matzehuels/tmrview/pkg/render/nodelink
// [text]: github.com/matzehuels/tmrview/pkg/render/text
package render
