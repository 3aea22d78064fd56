package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-6 }

func nearPt(p, q Point) bool { return near(p.X, q.X) && near(p.Y, q.Y) }

func TestThreePointArcPermutations(t *testing.T) {
	pts := [3]Point{{0, 0}, {10, 0}, {5, 5}}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, p := range perms {
		a := ThreePointArc(pts[p[0]], pts[p[1]], pts[p[2]])
		if a.Straight {
			t.Fatalf("perm %v: Straight = true", p)
		}
		if !nearPt(a.Center, Point{5, 0}) {
			t.Errorf("perm %v: Center = %v, want (5, 0)", p, a.Center)
		}
		if !near(a.Radius, 5) {
			t.Errorf("perm %v: Radius = %v, want 5", p, a.Radius)
		}
	}
}

func TestThreePointArcSweepContainsMiddle(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 Point
	}{
		{"upper half", Point{0, 0}, Point{5, 5}, Point{10, 0}},
		{"lower half", Point{0, 0}, Point{5, -5}, Point{10, 0}},
		{"large arc", Point{0, 0}, Point{5, 20}, Point{10, 0}},
		{"skewed", Point{3, -2}, Point{40, 17}, Point{-6, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ThreePointArc(tt.p1, tt.p2, tt.p3)
			if a.Straight {
				t.Fatal("Straight = true")
			}
			if a.End <= a.Start || a.End-a.Start >= 2*math.Pi {
				t.Fatalf("sweep [%v, %v] out of range", a.Start, a.End)
			}

			theta := tt.p2.Sub(a.Center).Angle()
			for theta < a.Start {
				theta += 2 * math.Pi
			}
			if theta > a.End {
				t.Errorf("middle point angle %v outside [%v, %v]", theta, a.Start, a.End)
			}

			from, to := a.Start, a.End
			if a.Reverse {
				from, to = to, from
			}
			if !nearPt(a.PointAt(from), tt.p1) || !nearPt(a.PointAt(to), tt.p3) {
				t.Errorf("endpoints %v, %v do not match P1, P3", a.PointAt(from), a.PointAt(to))
			}
		})
	}
}

func TestThreePointArcMid(t *testing.T) {
	a := ThreePointArc(Point{0, 0}, Point{5, 5}, Point{10, 0})
	if !a.Reverse {
		t.Error("Reverse = false, want true for a decreasing-angle turn")
	}
	if !nearPt(a.Mid(), Point{5, 5}) {
		t.Errorf("Mid() = %v, want (5, 5)", a.Mid())
	}
	if a.LargeArc() {
		t.Error("LargeArc() = true for a half circle")
	}
	if big := ThreePointArc(Point{0, 0}, Point{5, 20}, Point{10, 0}); !big.LargeArc() {
		t.Error("LargeArc() = false for a major arc")
	}
}

func TestThreePointArcStraight(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 Point
	}{
		{"collinear", Point{0, 0}, Point{5, 0}, Point{10, 0}},
		{"collinear outside", Point{0, 0}, Point{15, 0}, Point{10, 0}},
		{"nearly collinear", Point{0, 0}, Point{5, 1e-5}, Point{10, 0}},
		{"zero chord", Point{3, 3}, Point{5, 5}, Point{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ThreePointArc(tt.p1, tt.p2, tt.p3)
			if !a.Straight {
				t.Errorf("Straight = false, center %v radius %v", a.Center, a.Radius)
			}
			if a.Sweep() != 0 {
				t.Errorf("Sweep() = %v, want 0", a.Sweep())
			}
		})
	}
}

func TestBoundaryPoint(t *testing.T) {
	dst := Rect{X: 8, Y: -2, W: 4, H: 4}

	t.Run("arc", func(t *testing.T) {
		a := ThreePointArc(Point{0, 0}, Point{5, 5}, Point{10, 0})
		p, ok := a.BoundaryPoint(dst)
		if !ok {
			t.Fatal("BoundaryPoint() found nothing")
		}
		want := Point{5 + math.Sqrt(21), 2}
		if !nearPt(p, want) {
			t.Errorf("BoundaryPoint() = %v, want %v", p, want)
		}
	})

	t.Run("straight", func(t *testing.T) {
		a := ThreePointArc(Point{0, 0}, Point{5, 0}, Point{10, 0})
		p, ok := a.BoundaryPoint(dst)
		if !ok || !nearPt(p, Point{8, 0}) {
			t.Errorf("BoundaryPoint() = %v, %v, want (8, 0)", p, ok)
		}
	})

	t.Run("miss", func(t *testing.T) {
		a := ThreePointArc(Point{0, 0}, Point{5, 5}, Point{10, 0})
		if _, ok := a.BoundaryPoint(Rect{X: 100, Y: 100, W: 4, H: 4}); ok {
			t.Error("BoundaryPoint() hit a distant rectangle")
		}
	})
}

func TestArrowhead(t *testing.T) {
	dst := Rect{X: 8, Y: -2, W: 4, H: 4}

	t.Run("straight", func(t *testing.T) {
		a := ThreePointArc(Point{-20, 0}, Point{0, 0}, Point{10, 0})
		w := Arrowhead(a, dst, 15)
		if !nearPt(w.Tip, Point{8, 0}) {
			t.Errorf("Tip = %v, want (8, 0)", w.Tip)
		}
		if !nearPt(w.Left, Point{-7, 7.5}) || !nearPt(w.Right, Point{-7, -7.5}) {
			t.Errorf("wings = %v, %v", w.Left, w.Right)
		}
	})

	t.Run("arc", func(t *testing.T) {
		a := ThreePointArc(Point{-20, 0}, Point{-5, 15}, Point{10, 0})
		w := Arrowhead(a, dst, 6)
		if !near(w.Tip.Dist(a.Center), a.Radius) {
			t.Errorf("Tip %v not on circle", w.Tip)
		}
		base := w.Base()
		if !near(base.Dist(a.Center), a.Radius) {
			t.Errorf("base %v not on circle", base)
		}
		if !near(base.Dist(w.Tip), 6) {
			t.Errorf("base to tip = %v, want 6", base.Dist(w.Tip))
		}
		if !near(w.Left.Dist(w.Right), 6) {
			t.Errorf("wing span = %v, want 6", w.Left.Dist(w.Right))
		}
		if !a.Contains(base) {
			t.Error("base is not on the arc")
		}
		if dst.Contains(base) {
			t.Error("base should lie outside the destination box")
		}
	})

	t.Run("fallback to destination", func(t *testing.T) {
		a := ThreePointArc(Point{0, 0}, Point{5, 0}, Point{10, 0})
		w := Arrowhead(a, Rect{X: 100, Y: 100, W: 1, H: 1}, 4)
		if !nearPt(w.Tip, Point{10, 0}) {
			t.Errorf("Tip = %v, want P3", w.Tip)
		}
	})
}

func TestLabelCandidates(t *testing.T) {
	w := Wedge{Left: Point{0, 5}, Right: Point{0, -5}, Tip: Point{10, 0}}
	got := LabelCandidates(w, 2)
	want := [4]Point{{0, 7}, {0, -7}, {-2, 7}, {-2, -7}}
	for i := range want {
		if !nearPt(got[i], want[i]) {
			t.Errorf("candidate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlaceLabel(t *testing.T) {
	cands := [4]Point{{0, 0}, {20, 0}, {40, 0}, {60, 0}}
	tests := []struct {
		name    string
		placed  []Rect
		wantIdx int
	}{
		{"nothing placed", nil, 0},
		{
			"first two blocked",
			[]Rect{RectAround(Point{0, 0}, 8, 8), RectAround(Point{20, 2}, 8, 8)},
			2,
		},
		{
			"edge contact is free",
			[]Rect{{X: 5, Y: -5, W: 5, H: 10}},
			0,
		},
		{
			"all blocked",
			[]Rect{{X: -10, Y: -10, W: 100, H: 20}},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, idx := PlaceLabel(cands, 10, 10, tt.placed)
			if idx != tt.wantIdx {
				t.Errorf("index = %d, want %d", idx, tt.wantIdx)
			}
			if !nearPt(r.Center(), cands[tt.wantIdx]) {
				t.Errorf("rect centre = %v, want %v", r.Center(), cands[tt.wantIdx])
			}
		})
	}
}

func TestDelayMarker(t *testing.T) {
	a := ThreePointArc(Point{0, 0}, Point{5, 0}, Point{10, 0})
	bars := DelayMarker(a, 5, 4)
	want := [2]Segment{
		{Point{3, -2.5}, Point{3, 2.5}},
		{Point{7, -2.5}, Point{7, 2.5}},
	}
	for i := range want {
		if !nearPt(bars[i].A, want[i].A) || !nearPt(bars[i].B, want[i].B) {
			t.Errorf("bar %d = %v, want %v", i, bars[i], want[i])
		}
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{2, 2, 2, 2}, true},
		{"partial", Rect{5, 5, 10, 10}, true},
		{"shared edge", Rect{10, 0, 5, 5}, false},
		{"disjoint", Rect{20, 20, 1, 1}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSegmentIntersect(t *testing.T) {
	s := Segment{Point{0, 0}, Point{10, 10}}
	if p, ok := s.Intersect(Segment{Point{0, 10}, Point{10, 0}}); !ok || !nearPt(p, Point{5, 5}) {
		t.Errorf("Intersect() = %v, %v, want (5, 5)", p, ok)
	}
	if _, ok := s.Intersect(Segment{Point{0, 1}, Point{10, 11}}); ok {
		t.Error("parallel segments should not intersect")
	}
	if _, ok := s.Intersect(Segment{Point{20, 0}, Point{30, -10}}); ok {
		t.Error("disjoint segments should not intersect")
	}
}

func TestCenterIn(t *testing.T) {
	pts := []Point{{-10, -10}, {10, 30}}
	got := CenterIn(pts, 100, 200)
	want := []Point{{40, 80}, {60, 120}}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > eps || math.Abs(got[i].Y-want[i].Y) > eps {
			t.Errorf("CenterIn()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if b := Bounds(nil); b != (Rect{}) {
		t.Errorf("Bounds(nil) = %v, want zero", b)
	}
}
