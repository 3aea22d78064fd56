// Package scene resolves a laid-out graph into a drawable [graph.Diagram].
//
// Resolution turns layout coordinates into screen geometry: positions are
// centred in the frame, every vertex gets a box sized from its wrapped text,
// every arc gets its circle parameters, an arrowhead where it enters the
// target box, a polarity label placed clear of boxes, arrowheads and other
// labels, and a double bar when the link is delayed. The frame grows when
// the drawing does not fit.
//
// The result carries everything a renderer needs; renderers do no geometry
// of their own.
package scene

import (
	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/geom"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/layout/force"
)

// Defaults for [Options].
const (
	DefaultWidth       = 1200.0
	DefaultHeight      = 900.0
	DefaultFontSize    = 20.0
	DefaultWrapWidth   = 150.0
	DefaultArrowLength = 15.0
	DefaultLabelGap    = 4.0
	DefaultMargin      = 20.0

	delayBarLength  = 12.0
	delayBarSpacing = 6.0
	labelFontRatio  = 0.9
)

// Options controls scene resolution. Zero values select the defaults.
type Options struct {
	Width       float64 // initial frame width
	Height      float64 // initial frame height
	FontSize    float64 // vertex text size
	WrapWidth   float64 // maximum text line width inside a box
	ArrowLength float64 // arrowhead length and width
	LabelGap    float64 // distance between an arrowhead and its label
	Margin      float64 // minimum space between the drawing and the frame
	Debug       bool    // keep arc control points in the diagram
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.WrapWidth <= 0 {
		o.WrapWidth = DefaultWrapWidth
	}
	if o.ArrowLength <= 0 {
		o.ArrowLength = DefaultArrowLength
	}
	if o.LabelGap <= 0 {
		o.LabelGap = DefaultLabelGap
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
}

// Resolve builds the diagram for g laid out as r. r.Points must start with
// one position per vertex of g.
func Resolve(g *digraph.Graph, r force.Result, opts Options) graph.Diagram {
	opts.setDefaults()
	d := graph.Diagram{
		VizType:  graph.VizTypeLoop,
		Width:    opts.Width,
		Height:   opts.Height,
		Style:    graph.StyleSimple,
		FontSize: opts.FontSize,
	}
	if opts.Debug {
		d.Style = graph.StyleDebug
	}

	pts := geom.CenterIn(r.Points, opts.Width, opts.Height)
	n := g.Len()

	lines := make([][]string, n)
	boxes := make([]geom.Rect, n)
	for i, v := range g.Vertices {
		lines[i] = Wrap(v.Text, opts.WrapWidth, opts.FontSize)
		boxes[i] = TextBox(pts[i], lines[i], opts.FontSize)
	}

	shift := fit(&d, pts, boxes, opts.Margin)
	for i := range pts {
		pts[i] = pts[i].Add(shift)
	}
	for i := range boxes {
		boxes[i] = geom.RectAround(pts[i], boxes[i].W, boxes[i].H)
	}

	for i, v := range g.Vertices {
		d.Vertices = append(d.Vertices, graph.Vertex{
			ID:     v.Name,
			Text:   v.Text,
			Framed: v.Framed,
			Pos:    pts[i],
			Box:    boxes[i],
			Lines:  lines[i],
		})
	}

	for _, a := range r.Arcs {
		arc := geom.ThreePointArc(pts[a.Source], pts[a.Control], pts[a.Target])
		d.Arcs = append(d.Arcs, arcFor(g, a, arc, boxes[a.Target], opts))
	}

	placed := append([]geom.Rect(nil), boxes...)
	for _, a := range d.Arcs {
		placed = append(placed, geom.WedgeBounds(a.Arrow))
	}
	labelSize := opts.FontSize * labelFontRatio
	for k := range d.Arcs {
		a := &d.Arcs[k]
		sym := polaritySymbol(g.Polarity(r.Arcs[k].Source, r.Arcs[k].Target))
		if sym == "" {
			continue
		}
		cands := geom.LabelCandidates(a.Arrow, opts.LabelGap+labelSize/2)
		box, _ := geom.PlaceLabel(cands, TextWidth(sym, labelSize), labelSize, placed)
		a.Label = &graph.Label{Text: sym, Box: box}
		placed = append(placed, box)
	}

	if opts.Debug {
		for _, i := range r.Dummies {
			d.Controls = append(d.Controls, pts[i])
		}
	}
	return d
}

// fit grows the frame of d until boxes and control points fit inside the
// margin and returns the shift that re-centres an overflowing drawing.
func fit(d *graph.Diagram, pts []geom.Point, boxes []geom.Rect, margin float64) geom.Point {
	if len(pts) == 0 {
		return geom.Point{}
	}
	b := geom.Bounds(pts)
	for _, r := range boxes {
		b = b.Union(r)
	}

	var shift geom.Point
	if b.W+2*margin > d.Width {
		d.Width = b.W + 2*margin
	}
	if b.X < margin || b.Right() > d.Width-margin {
		shift.X = (d.Width-b.W)/2 - b.X
	}
	if b.H+2*margin > d.Height {
		d.Height = b.H + 2*margin
	}
	if b.Y < margin || b.Bottom() > d.Height-margin {
		shift.Y = (d.Height-b.H)/2 - b.Y
	}
	return shift
}

func arcFor(g *digraph.Graph, fa force.Arc, a geom.Arc, dst geom.Rect, opts Options) graph.Arc {
	attr, _ := g.Attr(fa.Source, fa.Target)
	out := graph.Arc{
		From:     g.Vertices[fa.Source].Name,
		To:       g.Vertices[fa.Target].Name,
		Color:    digraph.PolarityColor(attr.Polarity),
		Delayed:  attr.Delayed,
		Source:   a.P1,
		Control:  a.P2,
		Target:   a.P3,
		Straight: a.Straight,
		Arrow:    geom.Arrowhead(a, dst, opts.ArrowLength),
	}
	if attr.Polarity != dsl.PolarityDefault {
		out.Polarity = attr.Polarity.String()
	}
	if !a.Straight {
		out.Center = a.Center
		out.Radius = a.Radius
		out.Start = a.Start
		out.End = a.End
		out.LargeArc = a.LargeArc()
		out.Sweep = !a.Reverse
	}
	if attr.Delayed {
		bars := geom.DelayMarker(a, delayBarLength, delayBarSpacing)
		out.DelayBars = bars[:]
	}
	return out
}

func polaritySymbol(p dsl.Polarity) string {
	switch p {
	case dsl.PolarityPositive:
		return "+"
	case dsl.PolarityNegative:
		return "−"
	default:
		return ""
	}
}
