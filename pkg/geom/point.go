// Package geom provides the plane geometry used to draw loop diagrams: the
// circle through three points, where such an arc leaves a rectangle,
// arrowhead wedges and collision-free label placement.
//
// Coordinates are screen coordinates (y grows downward). Angles are
// measured with math.Atan2 on those raw coordinates, so an increasing angle
// turns clockwise on screen; this matches the SVG arc sweep flag.
package geom

import "math"

// Point is a position or vector in the plane.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point              { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point              { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point          { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64            { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64          { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64                   { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64           { return p.Sub(q).Len() }
func (p Point) Mid(q Point) Point              { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }
func (p Point) Perp() Point                    { return Point{-p.Y, p.X} }
func (p Point) Finite() bool                   { return finite(p.X) && finite(p.Y) }
func (p Point) Angle() float64                 { return math.Atan2(p.Y, p.X) }
func (p Point) Equal(q Point) bool             { return p.X == q.X && p.Y == q.Y }
func (p Point) Near(q Point, eps float64) bool { return p.Dist(q) <= eps }

// Norm returns p scaled to unit length, or the zero vector for a zero p.
func (p Point) Norm() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Polar returns the unit vector at angle theta.
func Polar(theta float64) Point {
	return Point{math.Cos(theta), math.Sin(theta)}
}

// IsLeft reports whether c lies to the left of the directed line a→b.
func IsLeft(a, b, c Point) bool {
	return b.Sub(a).Cross(c.Sub(a)) > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Segment is a line segment from A to B.
type Segment struct {
	A Point `json:"a" bson:"a"`
	B Point `json:"b" bson:"b"`
}

// Intersect returns the intersection of two segments, if any. Parallel
// segments never intersect.
func (s Segment) Intersect(o Segment) (Point, bool) {
	r := s.B.Sub(s.A)
	q := o.B.Sub(o.A)
	den := r.Cross(q)
	if math.Abs(den) < 1e-12 {
		return Point{}, false
	}
	d := o.A.Sub(s.A)
	t := d.Cross(q) / den
	u := d.Cross(r) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return s.A.Add(r.Scale(t)), true
}

// Bounds returns the smallest rectangle containing every point.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// CenterIn translates pts so their bounding box is centred in a w×h frame.
func CenterIn(pts []Point, w, h float64) []Point {
	out := make([]Point, len(pts))
	if len(pts) == 0 {
		return out
	}
	c := Bounds(pts).Center()
	shift := Point{w/2 - c.X, h/2 - c.Y}
	for i, p := range pts {
		out[i] = p.Add(shift)
	}
	return out
}
