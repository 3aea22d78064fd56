// Package digraph turns translated pools into the directed graph consumed
// by the layout stages: a square adjacency matrix indexed by vertex
// definition order plus per-pair link attributes.
//
// Several links may connect the same ordered pair. The matrix records the
// pair once and the attributes of the last such link win, including its
// delay flag.
package digraph

import (
	"fmt"

	"github.com/matzehuels/loopline/pkg/dsl"
)

// Stroke colours per polarity.
const (
	ColorDefault  = "#000000"
	ColorPositive = "#08ABED"
	ColorNegative = "#C73544"
)

// Pair identifies an ordered vertex pair by definition index.
type Pair struct {
	From int
	To   int
}

// Attr holds the attributes of the last link recorded for a pair.
type Attr struct {
	Polarity dsl.Polarity
	Delayed  bool
}

// Graph is the directed graph of a diagram.
type Graph struct {
	Vertices  []dsl.Vertex
	Adjacency [][]bool
	attrs     map[Pair]Attr
	links     int
}

// Build creates the graph for a pair of pools. Every link endpoint must be
// defined in vp; Translate guarantees this for pools it returns.
func Build(vp *dsl.VertexPool, lp *dsl.LinkPool) (*Graph, error) {
	n := vp.Len()
	g := &Graph{
		Vertices:  vp.Vertices(),
		Adjacency: NewMatrix(n),
		attrs:     make(map[Pair]Attr),
	}

	for _, l := range lp.Links() {
		from, ok := vp.Index(l.Left)
		if !ok {
			return nil, fmt.Errorf("link source %q is not a vertex", l.Left)
		}
		to, ok := vp.Index(l.Right)
		if !ok {
			return nil, fmt.Errorf("link target %q is not a vertex", l.Right)
		}
		g.Adjacency[from][to] = true
		g.attrs[Pair{from, to}] = Attr{Polarity: l.Polarity, Delayed: l.Delayed}
		g.links++
	}
	return g, nil
}

// NewMatrix returns an n×n matrix with every entry false.
func NewMatrix(n int) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	return m
}

// CopyMatrix returns a deep copy of m.
func CopyMatrix(m [][]bool) [][]bool {
	out := make([][]bool, len(m))
	for i, row := range m {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.Vertices) }

// LinkCount returns the number of links read from source, duplicates
// included.
func (g *Graph) LinkCount() int { return g.links }

// EdgeCount returns the number of distinct ordered pairs with a link.
func (g *Graph) EdgeCount() int { return len(g.attrs) }

// HasEdge reports whether a link from i to j exists.
func (g *Graph) HasEdge(i, j int) bool {
	if i < 0 || j < 0 || i >= len(g.Adjacency) || j >= len(g.Adjacency) {
		return false
	}
	return g.Adjacency[i][j]
}

// Attr returns the attributes of the pair (i, j).
func (g *Graph) Attr(i, j int) (Attr, bool) {
	a, ok := g.attrs[Pair{i, j}]
	return a, ok
}

// Polarity returns the polarity recorded for (i, j), or the default.
func (g *Graph) Polarity(i, j int) dsl.Polarity {
	return g.attrs[Pair{i, j}].Polarity
}

// Delayed reports whether the last link recorded for (i, j) was delayed.
func (g *Graph) Delayed(i, j int) bool {
	return g.attrs[Pair{i, j}].Delayed
}

// Color returns the stroke colour for (i, j).
func (g *Graph) Color(i, j int) string {
	return PolarityColor(g.Polarity(i, j))
}

// PolarityColor maps a polarity to its stroke colour.
func PolarityColor(p dsl.Polarity) string {
	switch p {
	case dsl.PolarityPositive:
		return ColorPositive
	case dsl.PolarityNegative:
		return ColorNegative
	default:
		return ColorDefault
	}
}

// Edges returns all recorded pairs in row-major order.
func (g *Graph) Edges() []Pair {
	var out []Pair
	for i, row := range g.Adjacency {
		for j, ok := range row {
			if ok {
				out = append(out, Pair{i, j})
			}
		}
	}
	return out
}
