package dsl

import (
	"github.com/matzehuels/loopline/pkg/errors"
)

// Vertex is a named diagram node. Index is its position in definition order.
type Vertex struct {
	Index  int
	Name   string
	Text   string
	Framed bool
}

// VertexPool maps names to vertices and keeps definition order.
type VertexPool struct {
	byName   map[string]int
	vertices []Vertex
}

// NewVertexPool returns an empty pool.
func NewVertexPool() *VertexPool {
	return &VertexPool{byName: make(map[string]int)}
}

// Put defines a new vertex. Names are unique; redefining one fails with
// ErrCodeDuplicateVertex.
func (p *VertexPool) Put(name, text string, framed bool) (Vertex, error) {
	if _, ok := p.byName[name]; ok {
		return Vertex{}, errors.New(errors.ErrCodeDuplicateVertex,
			"vertex %q is already defined", name)
	}
	v := Vertex{Index: len(p.vertices), Name: name, Text: text, Framed: framed}
	p.byName[name] = v.Index
	p.vertices = append(p.vertices, v)
	return v, nil
}

// ByName looks up a vertex by name.
func (p *VertexPool) ByName(name string) (Vertex, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Vertex{}, false
	}
	return p.vertices[i], true
}

// ByIndex looks up a vertex by definition index.
func (p *VertexPool) ByIndex(i int) (Vertex, bool) {
	if i < 0 || i >= len(p.vertices) {
		return Vertex{}, false
	}
	return p.vertices[i], true
}

// Index returns the definition index of name.
func (p *VertexPool) Index(name string) (int, bool) {
	i, ok := p.byName[name]
	return i, ok
}

// Len returns the number of vertices.
func (p *VertexPool) Len() int { return len(p.vertices) }

// Vertices returns a copy of all vertices in definition order.
func (p *VertexPool) Vertices() []Vertex {
	out := make([]Vertex, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Link is a directed edge between two vertex names.
type Link struct {
	Left     string
	Right    string
	Polarity Polarity
	Delayed  bool
}

// LinkPool is an ordered list of links. Duplicates are kept.
type LinkPool struct {
	links []Link
	refs  [][2]int // source offsets of Left and Right, parallel to links
}

// NewLinkPool returns an empty pool.
func NewLinkPool() *LinkPool {
	return &LinkPool{}
}

// Push appends a link that has no source location.
func (p *LinkPool) Push(l Link) {
	p.pushAt(l, errors.NoPos, errors.NoPos)
}

func (p *LinkPool) pushAt(l Link, left, right int) {
	p.links = append(p.links, l)
	p.refs = append(p.refs, [2]int{left, right})
}

// Links returns a copy of all links in insertion order.
func (p *LinkPool) Links() []Link {
	out := make([]Link, len(p.links))
	copy(out, p.links)
	return out
}

// Len returns the number of links.
func (p *LinkPool) Len() int { return len(p.links) }

// Pos returns the source offsets of the endpoints of link i, or NoPos for
// links added with Push.
func (p *LinkPool) Pos(i int) (left, right int) {
	if i < 0 || i >= len(p.refs) {
		return errors.NoPos, errors.NoPos
	}
	return p.refs[i][0], p.refs[i][1]
}
