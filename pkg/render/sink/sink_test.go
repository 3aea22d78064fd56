package sink

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/geom"
	"github.com/matzehuels/loopline/pkg/graph"
)

func sampleDiagram() graph.Diagram {
	return graph.Diagram{
		VizType:  graph.VizTypeLoop,
		Width:    400,
		Height:   200,
		FontSize: 20,
		Vertices: []graph.Vertex{
			{ID: "A", Text: "births & deaths", Pos: geom.Pt(100, 100), Box: geom.RectAround(geom.Pt(100, 100), 60, 34), Lines: []string{"births & deaths"}},
			{ID: "B", Text: "y", Framed: true, Pos: geom.Pt(300, 100), Box: geom.RectAround(geom.Pt(300, 100), 31, 34), Lines: []string{"y"}},
		},
		Arcs: []graph.Arc{
			{
				From: "A", To: "B", Color: digraph.ColorPositive, Polarity: "positive",
				Source: geom.Pt(100, 100), Control: geom.Pt(200, 140), Target: geom.Pt(300, 100),
				Center: geom.Pt(200, -5), Radius: 145, LargeArc: false, Sweep: true,
				Arrow: geom.Wedge{Left: geom.Pt(270, 118), Right: geom.Pt(276, 104), Tip: geom.Pt(284.5, 113)},
				Label: &graph.Label{Text: "+", Box: geom.Rect{X: 260, Y: 120, W: 10, H: 18}},
				DelayBars: []geom.Segment{
					{A: geom.Pt(197, 134), B: geom.Pt(197, 146)},
					{A: geom.Pt(203, 134), B: geom.Pt(203, 146)},
				},
				Delayed: true,
			},
			{
				From: "B", To: "A", Color: digraph.ColorDefault, Straight: true,
				Source: geom.Pt(300, 100), Control: geom.Pt(200, 100), Target: geom.Pt(100, 100),
				Arrow: geom.Wedge{Left: geom.Pt(145, 92.5), Right: geom.Pt(145, 107.5), Tip: geom.Pt(130, 100)},
			},
		},
		Controls: []geom.Point{{X: 200, Y: 140}, {X: 200, Y: 100}},
	}
}

func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("SVG is not well-formed: %v", err)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleDiagram()))
	wellFormed(t, []byte(svg))

	tests := []struct {
		name string
		want string
	}{
		{"frame", `viewBox="0 0 400.0 200.0"`},
		{"curved arc", `d="M 100.00 100.00 A 145.00 145.00 0 0 1 300.00 100.00" stroke="#08ABED"`},
		{"straight arc", `d="M 300.00 100.00 L 100.00 100.00" stroke="#000000"`},
		{"delay bar", `<line class="delay" x1="197.00" y1="134.00"`},
		{"framed box", `class="box framed"`},
		{"escaped text", `births &amp; deaths`},
		{"arrowhead", `<polygon points="270.00,118.00 276.00,104.00 284.50,113.00" fill="#08ABED"`},
		{"label", `>+</text>`},
		{"background", `fill="white"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(svg, tt.want) {
				t.Errorf("SVG missing %s", tt.want)
			}
		})
	}

	if strings.Contains(svg, `class="debug"`) {
		t.Error("debug geometry drawn without WithDebug")
	}
}

func TestRenderSVGOrder(t *testing.T) {
	svg := string(RenderSVG(sampleDiagram()))
	arc := strings.Index(svg, `class="arc"`)
	box := strings.Index(svg, `class="box`)
	arrow := strings.Index(svg, `<polygon`)
	if !(arc < box && box < arrow) {
		t.Errorf("draw order arc=%d box=%d arrow=%d, want arcs, boxes, arrowheads", arc, box, arrow)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleDiagram(), WithDebug(), WithBackground(""), WithFontFamily("Fira <Sans>")))
	wellFormed(t, []byte(svg))

	if got := strings.Count(svg, `class="debug"`); got != 2 {
		t.Errorf("debug chords = %d, want 2", got)
	}
	if got := strings.Count(svg, `<circle`); got != 2 {
		t.Errorf("control points = %d, want 2", got)
	}
	if strings.Contains(svg, `<rect width="100%"`) {
		t.Error("background drawn for empty colour")
	}
	if !strings.Contains(svg, `font-family="Fira &lt;Sans&gt;"`) {
		t.Error("font family not escaped")
	}
}

func TestRenderSVGMultilineText(t *testing.T) {
	d := graph.Diagram{
		Width: 100, Height: 100,
		Vertices: []graph.Vertex{{ID: "A", Pos: geom.Pt(50, 50), Lines: []string{"one", "two"}}},
	}
	svg := string(RenderSVG(d))
	if got := strings.Count(svg, "<tspan"); got != 2 {
		t.Errorf("tspans = %d, want 2", got)
	}
	// Default font size 20, line height 24: lines centred around y=50.
	if !strings.Contains(svg, `y="45.00">one`) || !strings.Contains(svg, `y="69.00">two`) {
		t.Errorf("unexpected line positions in %s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	d := sampleDiagram()
	data, err := RenderJSON(d, WithJSONStyle("debug"))
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	back, err := graph.UnmarshalDiagram(data)
	if err != nil {
		t.Fatalf("UnmarshalDiagram() error = %v", err)
	}
	if back.Style != "debug" || len(back.Arcs) != 2 || back.Arcs[0].Label.Text != "+" {
		t.Errorf("round trip = %+v", back)
	}
	if d.Style != "" {
		t.Error("RenderJSON() modified its input")
	}

	compact, err := RenderJSON(d, WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("compact JSON contains newlines")
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"a<b", "a&lt;b"},
		{`"q"`, "&#34;q&#34;"},
		{"x & y", "x &amp; y"},
	}
	for _, tt := range tests {
		if got := EscapeXML(tt.in); got != tt.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
