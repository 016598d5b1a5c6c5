// Package nodelink draws a formatted interpretation as a relation graph
// using Graphviz.
//
// Frames are nodes, filled with the same color their words receive in the
// sentence view. An attribute whose value names another frame (AGENT,
// THEME, a relation wrapper, ...) becomes a directed edge labelled with the
// attribute key.
//
// # Architecture
//
// Graphviz handles both layout and drawing, so DOT is the only
// intermediate representation:
//
//	tmr.Output → ToDOT() → DOT → RenderSVG() / RenderPNG() → bytes
//
// # Usage
//
//	out := formatter.Format(in)
//	dot := nodelink.ToDOT(out, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Rejected words
//
// The rejected-words frame is rendered with a dashed outline and grey fill
// and never has outgoing edges: its values are words, not entities.
package nodelink
