package geom

import "math"

// Wedge is a triangular arrowhead. Left is the wing on the Perp side of the
// direction of travel.
type Wedge struct {
	Left  Point `json:"left" bson:"left"`
	Right Point `json:"right" bson:"right"`
	Tip   Point `json:"tip" bson:"tip"`
}

// Base returns the midpoint between the wings.
func (w Wedge) Base() Point { return w.Left.Mid(w.Right) }

// Arrowhead places a wedge of the given length where arc enters dst. The tip
// sits on the border of dst (or at P3 when the arc never crosses it); the
// base is found by stepping back along the arc by one chord of length, and
// the wings stand perpendicular to the direction of travel at the base.
func Arrowhead(a Arc, dst Rect, length float64) Wedge {
	tip, ok := a.BoundaryPoint(dst)
	if !ok {
		tip = a.P3
	}

	var base, normal Point
	if a.Straight {
		dir := a.P3.Sub(a.P1).Norm()
		base = tip.Sub(dir.Scale(length))
		normal = dir.Perp()
	} else {
		step := 2 * math.Asin(math.Min(1, length/(2*a.Radius)))
		theta := tip.Sub(a.Center).Angle()
		if a.Reverse {
			theta += step
		} else {
			theta -= step
		}
		base = a.PointAt(theta)
		normal = a.Direction(base).Perp()
	}

	half := length / 2
	return Wedge{
		Left:  base.Add(normal.Scale(half)),
		Right: base.Sub(normal.Scale(half)),
		Tip:   tip,
	}
}

// LabelCandidates returns four anchor points for a label next to an
// arrowhead, in order of preference: beyond the left wing, beyond the right
// wing, and the same two moved back along the arrow by gap.
func LabelCandidates(w Wedge, gap float64) [4]Point {
	base := w.Base()
	back := base.Sub(w.Tip).Norm().Scale(gap)
	left := w.Left.Add(w.Left.Sub(base).Norm().Scale(gap))
	right := w.Right.Add(w.Right.Sub(base).Norm().Scale(gap))
	return [4]Point{left, right, left.Add(back), right.Add(back)}
}

// PlaceLabel returns the rectangle of a w×h label centred on the first
// candidate that overlaps none of placed, and that candidate's index. When
// every candidate collides the last one is used.
func PlaceLabel(cands [4]Point, w, h float64, placed []Rect) (Rect, int) {
	for i, c := range cands {
		r := RectAround(c, w, h)
		free := true
		for _, p := range placed {
			if r.Overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return r, i
		}
	}
	last := len(cands) - 1
	return RectAround(cands[last], w, h), last
}

// DelayMarker returns the two short bars drawn across the middle of a
// delayed link. Each bar has the given length and they are spacing apart
// along the direction of travel.
func DelayMarker(a Arc, length, spacing float64) [2]Segment {
	mid := a.Mid()
	dir := a.Direction(mid)
	normal := dir.Perp().Scale(length / 2)
	off := dir.Scale(spacing / 2)

	var bars [2]Segment
	for i, c := range [2]Point{mid.Sub(off), mid.Add(off)} {
		bars[i] = Segment{A: c.Sub(normal), B: c.Add(normal)}
	}
	return bars
}
