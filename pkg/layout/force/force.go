// Package force refines a global layout with a Fruchterman–Reingold
// simulation in which every link is bent through a dummy control vertex.
//
// For each directed link i→j a dummy vertex is placed a few units off the
// chord midpoint and the link becomes the arc (i, dummy, j). Dummies are
// pushed around by the same forces as real vertices but may only slide along
// the normal they were created with, so a link can bow but never drift along
// its chord. When both i→j and j→i exist the second dummy starts on the
// opposite side of the chord, which keeps reciprocal links visibly apart.
//
// The simulation runs a fixed number of iterations with a cooling
// temperature that caps how far a vertex may move per iteration.
package force

import (
	"math"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/geom"
)

// Defaults for [Options].
const (
	DefaultSpacing     = 650.0 / 7.9
	DefaultIterations  = 250
	DefaultTemperature = 1.5
	DefaultCooling     = 0.95
	DefaultDummyOffset = 5.0
)

// fallbackNormal is used for links whose endpoints coincide.
var fallbackNormal = geom.Pt(0, 1)

// Kind distinguishes diagram vertices from arc control vertices.
type Kind int

const (
	Real Kind = iota
	Dummy
)

func (k Kind) String() string {
	if k == Dummy {
		return "dummy"
	}
	return "real"
}

// Vertex is a vertex of the simulation.
type Vertex struct {
	Pos    geom.Point
	Kind   Kind
	Normal geom.Point // unit vector a dummy is confined to; zero for real vertices

	disp geom.Point
}

// Arc is one link bent through a control vertex, by simulation index.
type Arc struct {
	Source  int `json:"source"`
	Control int `json:"control"`
	Target  int `json:"target"`
}

// Options tunes the simulation.
type Options struct {
	Spacing     float64 // ideal edge length k
	Iterations  int
	Temperature float64 // initial displacement cap, in units of Spacing
	Cooling     float64 // temperature factor per iteration
	DummyOffset float64 // initial distance of a dummy from its chord
	FreezeReal  bool    // keep real vertices at their initial positions
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Spacing:     DefaultSpacing,
		Iterations:  DefaultIterations,
		Temperature: DefaultTemperature,
		Cooling:     DefaultCooling,
		DummyOffset: DefaultDummyOffset,
	}
}

// Option configures a [Layout].
type Option func(*Options)

// WithOptions replaces the whole tuning. Zero numeric fields fall back to
// defaults.
func WithOptions(o Options) Option { return func(dst *Options) { *dst = o } }

// WithSpacing sets the ideal edge length.
func WithSpacing(k float64) Option { return func(o *Options) { o.Spacing = k } }

// WithIterations sets the number of simulation steps.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithFreezeReal keeps real vertices fixed so only the arcs are refined.
func WithFreezeReal() Option { return func(o *Options) { o.FreezeReal = true } }

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Spacing <= 0 {
		o.Spacing = d.Spacing
	}
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.Temperature <= 0 {
		o.Temperature = d.Temperature
	}
	if o.Cooling <= 0 || o.Cooling > 1 {
		o.Cooling = d.Cooling
	}
	if o.DummyOffset <= 0 {
		o.DummyOffset = d.DummyOffset
	}
}

// Layout is the state of one simulation. It is not safe for concurrent use.
type Layout struct {
	opts     Options
	vertices []Vertex
	arcs     []Arc
	edges    [][2]int
	temp     float64
	steps    int
}

// New creates the simulation for adj with real vertices at pos. adj is not
// modified.
func New(adj [][]bool, pos []geom.Point, options ...Option) (*Layout, error) {
	if len(pos) != len(adj) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d positions for %d vertices", len(pos), len(adj))
	}
	opts := DefaultOptions()
	for _, o := range options {
		o(&opts)
	}
	opts.setDefaults()

	l := &Layout{opts: opts, temp: opts.Temperature}
	for i, p := range pos {
		if !p.Finite() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "position %d is not finite", i)
		}
		l.vertices = append(l.vertices, Vertex{Pos: p, Kind: Real})
	}

	work := digraph.CopyMatrix(adj)
	for i := range work {
		for j := range work[i] {
			if i == j || !work[i][j] {
				continue
			}
			n := normal(pos[i], pos[j])
			l.addArc(i, j, n)
			if work[j][i] {
				l.addArc(j, i, n.Scale(-1))
				work[j][i] = false
			}
		}
	}
	return l, nil
}

// normal returns the unit normal of the chord from a to b.
func normal(a, b geom.Point) geom.Point {
	n := b.Sub(a).Perp().Norm()
	if n.Len() == 0 {
		return fallbackNormal
	}
	return n
}

// addArc creates the dummy for the link from→to, offset along n from the
// chord midpoint.
func (l *Layout) addArc(from, to int, n geom.Point) {
	mid := l.vertices[from].Pos.Mid(l.vertices[to].Pos)
	d := len(l.vertices)
	l.vertices = append(l.vertices, Vertex{
		Pos:    mid.Add(n.Scale(l.opts.DummyOffset)),
		Kind:   Dummy,
		Normal: n,
	})
	l.arcs = append(l.arcs, Arc{Source: from, Control: d, Target: to})
	l.edges = append(l.edges, [2]int{from, d}, [2]int{d, to})
}

// Step advances the simulation by one iteration.
func (l *Layout) Step() {
	k := l.opts.Spacing
	vs := l.vertices
	for i := range vs {
		vs[i].disp = geom.Point{}
	}

	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			delta := vs[i].Pos.Sub(vs[j].Pos)
			d := delta.Len()
			if d < 1e-9 {
				continue
			}
			f := delta.Scale(k * k / (d * d))
			vs[i].disp = vs[i].disp.Add(f)
			vs[j].disp = vs[j].disp.Sub(f)
		}
	}

	for _, e := range l.edges {
		u, v := e[0], e[1]
		delta := vs[u].Pos.Sub(vs[v].Pos)
		d := delta.Len()
		if d < 1e-9 {
			continue
		}
		f := delta.Scale(d / k)
		vs[u].disp = vs[u].disp.Sub(f)
		vs[v].disp = vs[v].disp.Add(f)
	}

	limit := l.temp * k
	for i := range vs {
		disp := vs[i].disp
		if m := disp.Len(); m > limit {
			disp = disp.Scale(limit / m)
		}
		switch {
		case vs[i].Kind == Dummy:
			vs[i].Pos = vs[i].Pos.Add(vs[i].Normal.Scale(disp.Dot(vs[i].Normal)))
		case !l.opts.FreezeReal:
			vs[i].Pos = vs[i].Pos.Add(disp)
		}
	}

	l.temp *= l.opts.Cooling
	l.steps++
}

// Run performs the configured number of iterations and returns the result.
func (l *Layout) Run() Result {
	for l.steps < l.opts.Iterations {
		l.Step()
	}
	return l.Result()
}

// Vertices returns a copy of the simulation vertices.
func (l *Layout) Vertices() []Vertex {
	return append([]Vertex(nil), l.vertices...)
}

// Temperature returns the current displacement cap in units of Spacing.
func (l *Layout) Temperature() float64 { return l.temp }

// Result returns the current state.
func (l *Layout) Result() Result {
	r := Result{
		Points: make([]geom.Point, len(l.vertices)),
		Arcs:   append([]Arc(nil), l.arcs...),
	}
	for i, v := range l.vertices {
		r.Points[i] = v.Pos
		if v.Kind == Dummy {
			r.Dummies = append(r.Dummies, i)
		}
	}
	return r
}

// Result is the outcome of a simulation. Points holds the real vertices in
// definition order followed by the dummies; Dummies lists the dummy indices
// in increasing order.
type Result struct {
	Points  []geom.Point `json:"points"`
	Dummies []int        `json:"dummies"`
	Arcs    []Arc        `json:"arcs"`
}

// IsDummy reports whether index i is a dummy vertex.
func (r Result) IsDummy(i int) bool {
	if len(r.Dummies) == 0 {
		return false
	}
	return i >= r.Dummies[0] && i < len(r.Points)
}

// Real returns the positions of the real vertices.
func (r Result) Real() []geom.Point {
	n := len(r.Points)
	if len(r.Dummies) > 0 {
		n = r.Dummies[0]
	}
	return r.Points[:n]
}

// Bend returns the three points of arc a.
func (r Result) Bend(a Arc) (src, ctrl, dst geom.Point) {
	return r.Points[a.Source], r.Points[a.Control], r.Points[a.Target]
}

// Run is shorthand for New followed by (*Layout).Run.
func Run(adj [][]bool, pos []geom.Point, opts ...Option) (Result, error) {
	l, err := New(adj, pos, opts...)
	if err != nil {
		return Result{}, err
	}
	return l.Run(), nil
}

// Crowding returns the smallest distance between any two vertices of r, or
// +Inf when there are fewer than two.
func Crowding(r Result) float64 {
	best := math.Inf(1)
	for i := range r.Points {
		for j := i + 1; j < len(r.Points); j++ {
			best = math.Min(best, r.Points[i].Dist(r.Points[j]))
		}
	}
	return best
}
