package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/geom"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/layout/force"
	"github.com/matzehuels/loopline/pkg/layout/stress"
)

func build(t *testing.T, src string) *digraph.Graph {
	t.Helper()
	vp, lp, err := dsl.Translate(src)
	if err != nil {
		t.Fatalf("Translate(%q) error = %v", src, err)
	}
	g, err := digraph.Build(vp, lp)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func onBorder(p geom.Point, r geom.Rect) bool {
	const tol = 1e-6
	if !r.Grow(tol).Contains(p) {
		return false
	}
	return math.Abs(p.X-r.X) < tol || math.Abs(p.X-r.Right()) < tol ||
		math.Abs(p.Y-r.Y) < tol || math.Abs(p.Y-r.Bottom()) < tol
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single word", "stock", []string{"stock"}},
		{"wraps at width", "birth rate per year", []string{"birth rate", "per year"}},
		{"explicit newline", "a\nb", []string{"a", "b"}},
		{"long word alone", "x supercalifragilistic y", []string{"x", "supercalifragilistic", "y"}},
		{"collapses spaces", "  a   b  ", []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, 150, 20)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTextBox(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		w, h  float64
	}{
		{"one line", []string{"ab"}, 2*11 + 20, 24 + 10},
		{"two lines", []string{"abcd", "ab"}, 4*11 + 20, 48 + 10},
		{"empty", nil, 20, 24 + 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TextBox(geom.Pt(100, 50), tt.lines, 20)
			if math.Abs(r.W-tt.w) > 1e-9 || math.Abs(r.H-tt.h) > 1e-9 {
				t.Errorf("size = %vx%v, want %vx%v", r.W, r.H, tt.w, tt.h)
			}
			if c := r.Center(); !c.Near(geom.Pt(100, 50), 1e-9) {
				t.Errorf("centre = %v, want (100, 50)", c)
			}
		})
	}
}

func TestResolveDelayedNegative(t *testing.T) {
	g := build(t, "@A(x) ||-> @B(y);")
	r := force.Result{
		Points:  []geom.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 150, Y: 40}},
		Dummies: []int{2},
		Arcs:    []force.Arc{{Source: 0, Control: 2, Target: 1}},
	}
	d := Resolve(g, r, Options{Debug: true})

	if !d.IsLoop() || d.Style != graph.StyleDebug {
		t.Errorf("VizType, Style = %q, %q", d.VizType, d.Style)
	}
	if d.Width != DefaultWidth || d.Height != DefaultHeight {
		t.Errorf("frame = %vx%v, want defaults", d.Width, d.Height)
	}
	if len(d.Vertices) != 2 || len(d.Arcs) != 1 {
		t.Fatalf("got %d vertices, %d arcs", len(d.Vertices), len(d.Arcs))
	}
	if !d.Vertices[0].Pos.Near(geom.Pt(450, 430), 1e-9) {
		t.Errorf("A at %v, want (450, 430)", d.Vertices[0].Pos)
	}
	if len(d.Controls) != 1 || !d.Controls[0].Near(geom.Pt(600, 470), 1e-9) {
		t.Errorf("Controls = %v, want [(600, 470)]", d.Controls)
	}

	a := d.Arcs[0]
	if a.From != "A" || a.To != "B" {
		t.Errorf("arc %s→%s, want A→B", a.From, a.To)
	}
	if a.Color != digraph.ColorNegative || a.Polarity != "negative" {
		t.Errorf("Color, Polarity = %q, %q", a.Color, a.Polarity)
	}
	if a.Straight || a.Radius <= 0 {
		t.Errorf("Straight = %v, Radius = %v, want a curve", a.Straight, a.Radius)
	}
	if !a.Delayed || len(a.DelayBars) != 2 {
		t.Errorf("Delayed = %v, DelayBars = %v", a.Delayed, a.DelayBars)
	}
	if !onBorder(a.Arrow.Tip, d.Vertices[1].Box) {
		t.Errorf("tip %v not on box %v", a.Arrow.Tip, d.Vertices[1].Box)
	}
	if a.Label == nil || a.Label.Text != "−" {
		t.Fatalf("Label = %+v, want −", a.Label)
	}
	for _, v := range d.Vertices {
		if a.Label.Box.Overlaps(v.Box) {
			t.Errorf("label %v overlaps box of %s", a.Label.Box, v.ID)
		}
	}
}

func TestResolveStraightWithoutLabel(t *testing.T) {
	g := build(t, "@A(x) > @B(y);")
	r := force.Result{
		Points:  []geom.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 150, Y: 0}},
		Dummies: []int{2},
		Arcs:    []force.Arc{{Source: 0, Control: 2, Target: 1}},
	}
	d := Resolve(g, r, Options{})
	a := d.Arcs[0]
	if !a.Straight {
		t.Error("collinear arc should be straight")
	}
	if a.Label != nil {
		t.Errorf("default polarity got label %+v", a.Label)
	}
	if a.Color != digraph.ColorDefault {
		t.Errorf("Color = %q, want %q", a.Color, digraph.ColorDefault)
	}
	if len(d.Controls) != 0 {
		t.Errorf("Controls = %v without debug", d.Controls)
	}
	box := d.Vertices[1].Box
	if !a.Arrow.Tip.Near(geom.Pt(box.X, box.Center().Y), 1e-6) {
		t.Errorf("tip %v, want left side of %v", a.Arrow.Tip, box)
	}
}

func TestResolveGrowsFrame(t *testing.T) {
	g := build(t, "@A(x); @B(y);")
	r := force.Result{Points: []geom.Point{{X: 0, Y: 0}, {X: 5000, Y: 3000}}}
	d := Resolve(g, r, Options{Width: 800, Height: 600, Margin: 10})

	if d.Width <= 5000 || d.Height <= 3000 {
		t.Fatalf("frame = %vx%v, want it grown", d.Width, d.Height)
	}
	for _, v := range d.Vertices {
		if v.Box.X < 10-1e-9 || v.Box.Y < 10-1e-9 ||
			v.Box.Right() > d.Width-10+1e-9 || v.Box.Bottom() > d.Height-10+1e-9 {
			t.Errorf("box %v of %s outside %vx%v frame margin", v.Box, v.ID, d.Width, d.Height)
		}
	}
}

func TestResolveEndToEnd(t *testing.T) {
	g := build(t, "@A(x) > @B(y) +> A;")

	kk := stress.New(g.Adjacency)
	if err := kk.Run(); err != nil {
		t.Fatalf("stress Run() error = %v", err)
	}
	r, err := force.Run(g.Adjacency, kk.Positions())
	if err != nil {
		t.Fatalf("force.Run() error = %v", err)
	}
	d := Resolve(g, r, Options{})

	if len(d.Vertices) != 2 || len(d.Arcs) != 2 {
		t.Fatalf("got %d vertices, %d arcs, want 2 and 2", len(d.Vertices), len(d.Arcs))
	}

	ab, ba := d.Arcs[0], d.Arcs[1]
	if ab.From != "A" || ab.To != "B" || ab.Color != digraph.ColorDefault || ab.Label != nil {
		t.Errorf("first arc = %s→%s %s label %v", ab.From, ab.To, ab.Color, ab.Label)
	}
	if ba.From != "B" || ba.To != "A" || ba.Color != digraph.ColorPositive {
		t.Errorf("second arc = %s→%s %s", ba.From, ba.To, ba.Color)
	}
	if ba.Label == nil || ba.Label.Text != "+" {
		t.Errorf("second arc label = %+v, want +", ba.Label)
	}

	if geom.IsLeft(ab.Source, ab.Target, ab.Control) == geom.IsLeft(ab.Source, ab.Target, ba.Control) {
		t.Errorf("controls %v and %v on the same side", ab.Control, ba.Control)
	}

	boxes := map[string]geom.Rect{}
	for _, v := range d.Vertices {
		boxes[v.ID] = v.Box
	}
	for _, a := range d.Arcs {
		if !onBorder(a.Arrow.Tip, boxes[a.To]) {
			t.Errorf("%s→%s tip %v not on box %v", a.From, a.To, a.Arrow.Tip, boxes[a.To])
		}
	}
}
