package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/render"
)

// Engine is the Graphviz layout engine recorded in exported diagrams.
const Engine = "dot"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed shows the vertex text under its name. When false, only the
	// text is shown (or the name for vertices without text).
	Detailed bool

	// RankDir is the Graphviz rank direction; LR when empty.
	RankDir string
}

// ToDOT converts a graph to Graphviz DOT format. The result can be rendered
// with [RenderSVG], [RenderPDF] or [RenderPNG].
func ToDOT(g *digraph.Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices {
		fmt.Fprintf(&buf, "  %q [%s];\n", v.Name, strings.Join(nodeAttrs(v, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, p := range g.Edges() {
		from, to := g.Vertices[p.From].Name, g.Vertices[p.To].Name
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(edgeAttrs(g, p), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(v dsl.Vertex, detailed bool) []string {
	label := v.Text
	switch {
	case detailed && v.Text != "":
		label = v.Name + "\n" + v.Text
	case label == "":
		label = v.Name
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if v.Framed {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func edgeAttrs(g *digraph.Graph, p digraph.Pair) []string {
	attr, _ := g.Attr(p.From, p.To)
	color := digraph.PolarityColor(attr.Polarity)
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if sym := attr.Polarity.Symbol(); sym != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", sym), fmt.Sprintf("fontcolor=%q", color))
	}
	if attr.Delayed {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// Export packages a DOT string as a serializable nodelink diagram.
//
// Graphviz computes positions during rendering, so the diagram carries only
// the DOT source and the frame size requested by the caller.
func Export(dot string, width, height float64) graph.Diagram {
	return graph.Diagram{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Width:   width,
		Height:  height,
		Engine:  Engine,
		Style:   graph.StyleSimple,
	}
}

// Parse extracts the DOT string from a serialized nodelink diagram.
func Parse(d graph.Diagram) (string, error) {
	if d.VizType != "" && d.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink diagram: %q", d.VizType)
	}
	if d.DOT == "" {
		return "", fmt.Errorf("nodelink diagram must contain DOT string")
	}
	return d.DOT, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one whose
// width and height match the viewBox.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
