// Package graph provides serialization types for loop graphs and their
// resolved diagrams.
//
// This package defines the canonical wire format for loopline's data, used
// for JSON files, API responses, caching (JSON and BSON) and the renderers.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Diagram]: Serialization types (this package)
//   - pkg/digraph.Graph: Internal graph representation
//   - pkg/layout/force.Result: Internal layout (positions, dummies, arcs)
//
// Use [FromDigraph]/[ToDigraph] to convert graphs. Diagrams are produced by
// pkg/scene and consumed by pkg/render/sink.
//
// # Core Types
//
//   - [Graph]: Node-link format for the translated source
//   - [Diagram]: Fully resolved drawing (loop) or DOT text (nodelink)
//   - [Vertex], [Arc], [Label]: Positioned drawing elements
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "A", "text": "x"}, {"id": "B", "text": "y", "framed": true}],
//	  "edges": [{"from": "A", "to": "B", "polarity": "positive"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)       // digraph → []byte
//	parsed, _ := graph.UnmarshalGraph(data) // []byte → Graph
//	g, _ := graph.ToDigraph(parsed)         // Graph → digraph
//
// # Diagram Serialization
//
// Diagrams are discriminated by VizType:
//
//	d, _ := graph.UnmarshalDiagram(data)
//	if d.IsLoop() {
//	    // Use d.Vertices and d.Arcs
//	} else {
//	    // Use d.DOT for Graphviz rendering
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
