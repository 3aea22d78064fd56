// Package render provides output rendering for loop diagrams.
//
// # Overview
//
// This package contains the last stage of the pipeline, which turns a
// resolved [graph.Diagram] into bytes. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Loop diagram output (in [sink] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(diagram)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the plain directed graph with Graphviz,
// useful for checking a model's structure without the curved layout.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [graph.Diagram]: github.com/matzehuels/loopline/pkg/graph.Diagram
// [sink]: github.com/matzehuels/loopline/pkg/render/sink
// [nodelink]: github.com/matzehuels/loopline/pkg/render/nodelink
package render
