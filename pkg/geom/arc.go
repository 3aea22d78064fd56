package geom

import "math"

const (
	// collinearEps is the cross product magnitude below which three points
	// are treated as lying on one line.
	collinearEps = 1e-3

	// nudgeRatio scales the perpendicular offset applied to a near-collinear
	// middle point, relative to the chord length.
	nudgeRatio = 1e-6

	// farCenterRatio bounds the distance from the chord midpoint to the
	// circle centre, relative to the chord length. Farther centres give a
	// straight segment.
	farCenterRatio = 1e4
)

// Arc is the circular arc from P1 through P2 to P3, or the straight segment
// P1→P3 when no usable circle exists.
//
// Start and End are the angles of the swept range with End > Start and
// End-Start < 2π. Travel from P1 to P3 runs with increasing angle from
// Start to End unless Reverse is set, in which case it runs from End down to
// Start.
type Arc struct {
	P1, P2, P3 Point
	Center     Point
	Radius     float64
	Start      float64
	End        float64
	Reverse    bool
	Straight   bool
}

// ThreePointArc returns the arc through three points. A middle point that
// is (nearly) on the chord is first moved onto it and nudged off by a tiny
// fraction of the chord, so exactly collinear input always ends up as a
// straight segment through the far-centre check.
func ThreePointArc(p1, p2, p3 Point) Arc {
	a := Arc{P1: p1, P2: p2, P3: p3}

	chord := p3.Sub(p1)
	length := chord.Len()
	if length < 1e-9 {
		a.Straight = true
		return a
	}

	if math.Abs(p2.Sub(p1).Cross(p3.Sub(p2))) < collinearEps {
		dir := chord.Scale(1 / length)
		proj := p1.Add(dir.Scale(p2.Sub(p1).Dot(dir)))
		p2 = proj.Add(dir.Perp().Scale(length * nudgeRatio))
	}

	b := p2.Sub(p1)
	c := p3.Sub(p1)
	d := 2 * b.Cross(c)
	bb := b.Dot(b)
	cc := c.Dot(c)
	center := Point{
		X: p1.X + (c.Y*bb-b.Y*cc)/d,
		Y: p1.Y + (b.X*cc-c.X*bb)/d,
	}
	if !center.Finite() || center.Dist(p1.Mid(p3)) > farCenterRatio*length {
		a.Straight = true
		return a
	}

	a.Center = center
	a.Radius = center.Dist(p1)
	t1 := p1.Sub(center).Angle()
	t3 := p3.Sub(center).Angle()

	// d > 0 means the turn p1→p2→p3 has increasing angle.
	if d > 0 {
		a.Start, a.End = t1, t3
	} else {
		a.Start, a.End = t3, t1
		a.Reverse = true
	}
	for a.End <= a.Start {
		a.End += 2 * math.Pi
	}
	return a
}

// Sweep returns the angular extent of the arc.
func (a Arc) Sweep() float64 {
	if a.Straight {
		return 0
	}
	return a.End - a.Start
}

// LargeArc reports whether the arc spans more than half the circle.
func (a Arc) LargeArc() bool { return a.Sweep() > math.Pi }

// PointAt returns the point of the circle at angle theta.
func (a Arc) PointAt(theta float64) Point {
	return a.Center.Add(Polar(theta).Scale(a.Radius))
}

// Mid returns the point halfway along the arc.
func (a Arc) Mid() Point {
	if a.Straight {
		return a.P1.Mid(a.P3)
	}
	return a.PointAt((a.Start + a.End) / 2)
}

// Direction returns the unit direction of travel from P1 towards P3 at p,
// which must lie on the arc.
func (a Arc) Direction(p Point) Point {
	if a.Straight {
		return a.P3.Sub(a.P1).Norm()
	}
	t := p.Sub(a.Center).Perp().Norm()
	if a.Reverse {
		return t.Scale(-1)
	}
	return t
}

// Contains reports whether p, assumed on the circle, lies on the arc
// through P2 rather than on the remaining part of the circle.
func (a Arc) Contains(p Point) bool {
	if a.Straight {
		return true
	}
	return IsLeft(a.P1, p, a.P3) == IsLeft(a.P1, a.P2, a.P3)
}

// BoundaryPoint returns where the arc crosses the border of r. Sides are
// tried in the order left, top, right, bottom; the first crossing that lies
// on the arc wins.
func (a Arc) BoundaryPoint(r Rect) (Point, bool) {
	for _, side := range r.Sides() {
		if a.Straight {
			if p, ok := (Segment{a.P1, a.P3}).Intersect(side); ok {
				return p, true
			}
			continue
		}
		for _, p := range a.circleHits(side) {
			if a.Contains(p) {
				return p, true
			}
		}
	}
	return Point{}, false
}

// circleHits returns the intersections of the full circle with s, ordered
// along s.
func (a Arc) circleHits(s Segment) []Point {
	d := s.B.Sub(s.A)
	f := s.A.Sub(a.Center)
	qa := d.Dot(d)
	if qa == 0 {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - a.Radius*a.Radius
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)

	var hits []Point
	for _, t := range [2]float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t >= 0 && t <= 1 {
			hits = append(hits, s.A.Add(d.Scale(t)))
		}
	}
	return hits
}
