package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeLoop     = "loop"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StyleSimple = "simple"
	StyleDebug  = "debug"
)

// =============================================================================
// Graph - Loop Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for translated loop graphs.
// Nodes appear in definition order and edges in row-major order of the
// adjacency matrix, one per ordered pair.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a vertex of the loop graph.
type Node struct {
	ID     string `json:"id" bson:"id"`
	Text   string `json:"text,omitempty" bson:"text,omitempty"`
	Framed bool   `json:"framed,omitempty" bson:"framed,omitempty"`
}

// DisplayLabel returns the text if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Text != "" {
		return n.Text
	}
	return n.ID
}

// Edge is a directed link between two nodes.
type Edge struct {
	From     string `json:"from" bson:"from"`
	To       string `json:"to" bson:"to"`
	Polarity string `json:"polarity,omitempty" bson:"polarity,omitempty"` // "positive", "negative", or empty
	Delayed  bool   `json:"delayed,omitempty" bson:"delayed,omitempty"`
}

// =============================================================================
// digraph ↔ Graph Conversion
// =============================================================================

// FromDigraph converts a graph to its serialization format.
func FromDigraph(g *digraph.Graph) Graph {
	out := Graph{Nodes: make([]Node, len(g.Vertices)), Edges: []Edge{}}
	for i, v := range g.Vertices {
		out.Nodes[i] = Node{ID: v.Name, Text: v.Text, Framed: v.Framed}
	}
	for _, p := range g.Edges() {
		a, _ := g.Attr(p.From, p.To)
		out.Edges = append(out.Edges, Edge{
			From:     g.Vertices[p.From].Name,
			To:       g.Vertices[p.To].Name,
			Polarity: polarityString(a.Polarity),
			Delayed:  a.Delayed,
		})
	}
	return out
}

// ToPools converts a Graph back into vertex and link pools, as if its
// source had been translated.
func ToPools(gj Graph) (*dsl.VertexPool, *dsl.LinkPool, error) {
	vp := dsl.NewVertexPool()
	for _, n := range gj.Nodes {
		if _, err := vp.Put(n.ID, n.Text, n.Framed); err != nil {
			return nil, nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}

	lp := dsl.NewLinkPool()
	for _, e := range gj.Edges {
		p, ok := dsl.ParsePolarity(e.Polarity)
		if !ok {
			return nil, nil, fmt.Errorf("edge %s→%s: unknown polarity %q", e.From, e.To, e.Polarity)
		}
		lp.Push(dsl.Link{Left: e.From, Right: e.To, Polarity: p, Delayed: e.Delayed})
	}
	return vp, lp, nil
}

// ToDigraph converts a Graph to the internal representation. Edges must
// reference declared nodes.
func ToDigraph(gj Graph) (*digraph.Graph, error) {
	vp, lp, err := ToPools(gj)
	if err != nil {
		return nil, err
	}
	return digraph.Build(vp, lp)
}

func polarityString(p dsl.Polarity) string {
	if p == dsl.PolarityDefault {
		return ""
	}
	return p.String()
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *digraph.Graph) ([]byte, error) {
	return json.MarshalIndent(FromDigraph(g), "", "  ")
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *digraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDigraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*digraph.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDigraph(data)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*digraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
