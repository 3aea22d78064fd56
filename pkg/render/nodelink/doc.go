// Package nodelink renders loop graphs as plain node-link diagrams.
//
// # Overview
//
// This package draws the translated graph with Graphviz instead of the
// curved loop layout. It is meant for checking the structure of a model:
// every vertex is a box, every link an arrow coloured by polarity, delayed
// links are dashed.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
