package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/scene"
)

const diagramCSS = `
    .arc { fill: none; stroke-width: 2; }
    .delay { stroke-width: 2; }
    .box { fill: white; }
    .box.framed { stroke: black; stroke-width: 3; }
    .vertex-text, .label { fill: black; text-anchor: middle; }
    .debug { fill: none; stroke: #999999; stroke-width: 1; stroke-dasharray: 4 3; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	debug      bool
	background string
	fontFamily string
}

// WithDebug draws arc chords and control points.
func WithDebug() SVGOption { return func(r *svgRenderer) { r.debug = true } }

// WithBackground fills the frame with color. An empty color leaves it
// transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithFontFamily sets the font used for vertex text and labels.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// RenderSVG renders a loop diagram as a standalone SVG document.
func RenderSVG(d graph.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{background: "white", fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}
	fontSize := d.FontSize
	if fontSize <= 0 {
		fontSize = scene.DefaultFontSize
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		d.Width, d.Height, d.Width, d.Height, EscapeXML(r.fontFamily))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}

	for _, a := range d.Arcs {
		renderArc(&buf, a)
	}
	if r.debug {
		renderDebug(&buf, d)
	}
	for _, v := range d.Vertices {
		renderVertex(&buf, v, fontSize)
	}
	for _, a := range d.Arcs {
		renderArrow(&buf, a, fontSize)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderArc(buf *bytes.Buffer, a graph.Arc) {
	if a.Straight {
		fmt.Fprintf(buf, `  <path class="arc" d="M %.2f %.2f L %.2f %.2f" stroke="%s"/>`+"\n",
			a.Source.X, a.Source.Y, a.Target.X, a.Target.Y, a.Color)
	} else {
		fmt.Fprintf(buf, `  <path class="arc" d="M %.2f %.2f A %.2f %.2f 0 %d %d %.2f %.2f" stroke="%s"/>`+"\n",
			a.Source.X, a.Source.Y, a.Radius, a.Radius, flag(a.LargeArc), flag(a.Sweep), a.Target.X, a.Target.Y, a.Color)
	}
	for _, s := range a.DelayBars {
		fmt.Fprintf(buf, `  <line class="delay" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			s.A.X, s.A.Y, s.B.X, s.B.Y, a.Color)
	}
}

func renderDebug(buf *bytes.Buffer, d graph.Diagram) {
	for _, a := range d.Arcs {
		fmt.Fprintf(buf, `  <path class="debug" d="M %.2f %.2f L %.2f %.2f L %.2f %.2f"/>`+"\n",
			a.Source.X, a.Source.Y, a.Control.X, a.Control.Y, a.Target.X, a.Target.Y)
	}
	for _, p := range d.Controls {
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="3" fill="#999999"/>`+"\n", p.X, p.Y)
	}
}

func renderVertex(buf *bytes.Buffer, v graph.Vertex, fontSize float64) {
	class := "box"
	if v.Framed {
		class = "box framed"
	}
	fmt.Fprintf(buf, `  <rect id="vertex-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		EscapeXML(v.ID), class, v.Box.X, v.Box.Y, v.Box.W, v.Box.H)
	if len(v.Lines) == 0 {
		return
	}

	lh := scene.LineHeight(fontSize)
	first := v.Pos.Y - float64(len(v.Lines)-1)*lh/2 + fontSize*0.35
	fmt.Fprintf(buf, `  <text class="vertex-text" font-size="%.1f">`, fontSize)
	for i, line := range v.Lines {
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, v.Pos.X, first+float64(i)*lh, EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func renderArrow(buf *bytes.Buffer, a graph.Arc, fontSize float64) {
	w := a.Arrow
	fmt.Fprintf(buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" stroke="%s"/>`+"\n",
		w.Left.X, w.Left.Y, w.Right.X, w.Right.Y, w.Tip.X, w.Tip.Y, a.Color, a.Color)
	if a.Label == nil {
		return
	}
	c := a.Label.Box.Center()
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		c.X, c.Y+a.Label.Box.H*0.35, a.Label.Box.H, a.Color, EscapeXML(a.Label.Text))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
