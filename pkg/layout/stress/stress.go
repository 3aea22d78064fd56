// Package stress computes the global placement of diagram vertices by
// stress majorization over graph-theoretic distances (the Kamada–Kawai
// spring model).
//
// Every vertex pair is joined by a spring whose rest length is proportional
// to the number of links on the shortest path between them, so the drawing
// reproduces graph distance as geometric distance. The energy is minimised
// one vertex at a time: the vertex with the steepest energy gradient is moved
// by Newton–Raphson steps until its gradient falls below Epsilon, and the
// process repeats until no vertex exceeds Epsilon.
//
// Links are treated as undirected here. Vertices in different components
// are kept one step farther apart than the longest path in the graph.
//
// The run is deterministic: vertices start on a circle and ties between
// gradients go to the lower index.
package stress

import (
	"math"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/geom"
)

// Defaults for [Options].
const (
	DefaultDiameter       = 650.0
	DefaultStiffness      = 10.0
	DefaultEpsilon        = 0.1
	DefaultMaxNewtonSteps = 1000
	DefaultMaxSweeps      = 10000
)

// unreached is the distance assigned to pairs before shortest paths are
// known.
const unreached = 1000.0

// Options tunes the layout.
type Options struct {
	Diameter       float64 // target distance between the farthest vertices
	Stiffness      float64 // spring constant for adjacent vertices
	Epsilon        float64 // gradient magnitude at which a vertex is settled
	MaxNewtonSteps int     // Newton iterations allowed per vertex move
	MaxSweeps      int     // vertex moves allowed per run
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Diameter:       DefaultDiameter,
		Stiffness:      DefaultStiffness,
		Epsilon:        DefaultEpsilon,
		MaxNewtonSteps: DefaultMaxNewtonSteps,
		MaxSweeps:      DefaultMaxSweeps,
	}
}

// Option configures a [Layout].
type Option func(*Options)

// WithOptions replaces the whole tuning. Zero fields fall back to defaults.
func WithOptions(o Options) Option { return func(dst *Options) { *dst = o } }

// WithDiameter sets the target distance between the farthest vertices.
func WithDiameter(d float64) Option { return func(o *Options) { o.Diameter = d } }

// WithStiffness sets the spring constant.
func WithStiffness(k float64) Option { return func(o *Options) { o.Stiffness = k } }

// WithEpsilon sets the gradient magnitude at which the run stops.
func WithEpsilon(eps float64) Option { return func(o *Options) { o.Epsilon = eps } }

// WithLimits caps Newton steps per move and moves per run.
func WithLimits(newtonSteps, sweeps int) Option {
	return func(o *Options) {
		o.MaxNewtonSteps = newtonSteps
		o.MaxSweeps = sweeps
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Diameter <= 0 {
		o.Diameter = d.Diameter
	}
	if o.Stiffness <= 0 {
		o.Stiffness = d.Stiffness
	}
	if o.Epsilon <= 0 {
		o.Epsilon = d.Epsilon
	}
	if o.MaxNewtonSteps <= 0 {
		o.MaxNewtonSteps = d.MaxNewtonSteps
	}
	if o.MaxSweeps <= 0 {
		o.MaxSweeps = d.MaxSweeps
	}
}

// Layout holds the state of one stress majorization run. It is not safe for
// concurrent use.
type Layout struct {
	opts   Options
	n      int
	dist   [][]float64
	length [][]float64
	spring [][]float64
	x, y   []float64
	sweeps int
}

// New prepares a layout for the graph described by adj, with vertices on a
// circle of radius Diameter. adj is not modified.
func New(adj [][]bool, options ...Option) *Layout {
	opts := DefaultOptions()
	for _, o := range options {
		o(&opts)
	}
	opts.setDefaults()
	n := len(adj)
	l := &Layout{
		opts: opts,
		n:    n,
		x:    make([]float64, n),
		y:    make([]float64, n),
	}
	dist, longest := shortestPaths(symmetric(adj))
	l.dist = dist
	l.springs(longest)

	for i := 1; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		l.x[i-1] = opts.Diameter * math.Cos(theta)
		l.y[i-1] = opts.Diameter * math.Sin(theta)
	}
	return l
}

// NewWithPositions prepares a layout that starts from the given positions
// instead of the circle.
func NewWithPositions(adj [][]bool, pos []geom.Point, opts ...Option) (*Layout, error) {
	if len(pos) != len(adj) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d positions for %d vertices", len(pos), len(adj))
	}
	l := New(adj, opts...)
	for i, p := range pos {
		if !p.Finite() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "position %d is not finite", i)
		}
		l.x[i], l.y[i] = p.X, p.Y
	}
	return l, nil
}

// symmetric returns a copy of adj with every link also added in reverse.
func symmetric(adj [][]bool) [][]bool {
	m := digraph.CopyMatrix(adj)
	for i := range m {
		for j := range m[i] {
			if adj[i][j] {
				m[j][i] = true
			}
		}
	}
	return m
}

// shortestPaths runs Floyd–Warshall with unit link weights and returns the
// distances with the longest finite one. Pairs without a path get one more
// than that, and 2 when the graph has no path at all.
func shortestPaths(adj [][]bool) ([][]float64, float64) {
	n := len(adj)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			if i != j && adj[i][j] {
				d[i][j] = 1
			} else {
				d[i][j] = unreached
			}
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if d[i][k]+d[k][j] < d[i][j] {
					d[i][j] = d[i][k] + d[k][j]
				}
			}
		}
	}

	longest := 0.0
	for i := range d {
		for j := range d[i] {
			if i != j && d[i][j] < unreached {
				longest = math.Max(longest, d[i][j])
			}
		}
	}
	if longest == 0 {
		longest = 1
	}
	for i := range d {
		for j := range d[i] {
			if i == j {
				d[i][j] = 0
			} else if d[i][j] >= unreached {
				d[i][j] = longest + 1
			}
		}
	}
	return d, longest
}

// springs derives rest lengths and spring constants from the distances.
// The longest finite distance maps to Diameter.
func (l *Layout) springs(longest float64) {
	unit := l.opts.Diameter / longest

	l.length = make([][]float64, l.n)
	l.spring = make([][]float64, l.n)
	for i := 0; i < l.n; i++ {
		l.length[i] = make([]float64, l.n)
		l.spring[i] = make([]float64, l.n)
		for j := 0; j < l.n; j++ {
			if i == j {
				continue
			}
			d := l.dist[i][j]
			l.length[i][j] = unit * d
			l.spring[i][j] = l.opts.Stiffness / (d * d)
		}
	}
}

// Run moves vertices until every gradient is within Epsilon. It fails with
// ErrCodeDegenerate when the Newton system becomes singular, a value stops
// being finite, or an iteration cap is hit; positions reached so far remain
// available.
func (l *Layout) Run() error {
	for {
		m, g := l.MaxGradient()
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return errors.New(errors.ErrCodeDegenerate, "gradient of vertex %d is not finite", m)
		}
		if g <= l.opts.Epsilon {
			return nil
		}
		if l.sweeps >= l.opts.MaxSweeps {
			return errors.New(errors.ErrCodeDegenerate,
				"stress layout did not settle after %d moves (gradient %.3g)", l.sweeps, g)
		}
		if err := l.settle(m); err != nil {
			return err
		}
		l.sweeps++
	}
}

// settle moves vertex m by Newton–Raphson steps until its gradient is within
// Epsilon.
func (l *Layout) settle(m int) error {
	for step := 0; ; step++ {
		p := l.partials(m)
		if math.Hypot(p.ex, p.ey) <= l.opts.Epsilon {
			return nil
		}
		if step >= l.opts.MaxNewtonSteps {
			return errors.New(errors.ErrCodeDegenerate,
				"vertex %d did not settle after %d Newton steps", m, step)
		}

		det := p.exx*p.eyy - p.exy*p.exy
		if math.Abs(det) < 1e-12 {
			return errors.New(errors.ErrCodeDegenerate, "singular Hessian at vertex %d", m)
		}
		dx := (-p.ex*p.eyy + p.ey*p.exy) / det
		dy := (-p.ey*p.exx + p.ex*p.exy) / det
		if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
			return errors.New(errors.ErrCodeDegenerate, "Newton step of vertex %d is not finite", m)
		}
		l.x[m] += dx
		l.y[m] += dy
	}
}

type partials struct {
	ex, ey, exx, eyy, exy float64
}

// partials returns the first and second derivatives of the energy with
// respect to the position of vertex m. Pairs sitting on top of each other
// have no direction and are skipped.
func (l *Layout) partials(m int) partials {
	var p partials
	for i := 0; i < l.n; i++ {
		if i == m {
			continue
		}
		dx := l.x[m] - l.x[i]
		dy := l.y[m] - l.y[i]
		d := math.Hypot(dx, dy)
		if d < 1e-9 {
			continue
		}
		k := l.spring[m][i]
		ln := l.length[m][i]
		d3 := d * d * d

		p.ex += k * (dx - ln*dx/d)
		p.ey += k * (dy - ln*dy/d)
		p.exx += k * (1 - ln*dy*dy/d3)
		p.eyy += k * (1 - ln*dx*dx/d3)
		p.exy += k * ln * dx * dy / d3
	}
	return p
}

// MaxGradient returns the vertex with the largest gradient magnitude and
// that magnitude. An empty layout reports (-1, 0).
func (l *Layout) MaxGradient() (int, float64) {
	best, bestG := -1, 0.0
	for m := 0; m < l.n; m++ {
		p := l.partials(m)
		g := math.Hypot(p.ex, p.ey)
		if best < 0 || g > bestG || math.IsNaN(g) {
			best, bestG = m, g
			if math.IsNaN(g) {
				break
			}
		}
	}
	return best, bestG
}

// Energy returns the total spring energy of the current positions.
func (l *Layout) Energy() float64 {
	e := 0.0
	for i := 0; i < l.n; i++ {
		for j := i + 1; j < l.n; j++ {
			d := math.Hypot(l.x[i]-l.x[j], l.y[i]-l.y[j])
			diff := d - l.length[i][j]
			e += l.spring[i][j] * diff * diff / 2
		}
	}
	return e
}

// Positions returns the current vertex positions.
func (l *Layout) Positions() []geom.Point {
	out := make([]geom.Point, l.n)
	for i := range out {
		out[i] = geom.Pt(l.x[i], l.y[i])
	}
	return out
}

// Distances returns a copy of the graph distances used as spring lengths.
func (l *Layout) Distances() [][]float64 {
	out := make([][]float64, l.n)
	for i := range l.dist {
		out[i] = append([]float64(nil), l.dist[i]...)
	}
	return out
}

// Sweeps returns the number of vertex moves made so far.
func (l *Layout) Sweeps() int { return l.sweeps }
