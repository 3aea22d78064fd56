// Package sink writes resolved loop diagrams in their output formats.
//
// Every sink consumes a [graph.Diagram] produced by pkg/scene; all geometry
// is already computed, so sinks only translate it into markup.
//
//   - [RenderSVG]: standalone SVG document
//   - [RenderPNG], [RenderPDF]: SVG converted with rsvg-convert
//   - [RenderJSON]: the diagram itself, for caching and other tools
//
// Drawing order follows the way a reader's eye resolves overlaps: arcs and
// delay markers first, vertex boxes over the arc ends, then arrowheads and
// polarity labels on top.
//
// [graph.Diagram]: github.com/matzehuels/loopline/pkg/graph.Diagram
package sink
