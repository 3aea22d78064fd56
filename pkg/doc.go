// Package pkg provides the libraries behind loopline, a compiler for causal
// loop diagrams.
//
// # Overview
//
// A loop source names vertices and the signed, possibly delayed links
// between them:
//
//	@A(births) +> @B[population] -> A;
//	B ||-> @C(deaths) -> B;
//
// loopline translates the source into a directed graph, places the vertices
// with a stress-minimizing layout, bends every link into a circular arc with
// a force-directed pass over one control point per link, and draws the
// result as SVG, PNG, PDF, JSON or Graphviz DOT.
//
// # Architecture
//
//	source text
//	     ↓
//	[dsl]        tokens, vertex and link pools, canonical formatting
//	     ↓
//	[digraph]    adjacency matrix with polarity and delay per edge
//	     ↓
//	[layout/stress]  Kamada–Kawai vertex placement
//	     ↓
//	[layout/force]   Fruchterman–Reingold arc control points
//	     ↓
//	[scene]      boxes, arcs, arrowheads and labels in screen space
//	     ↓
//	[render/sink], [render/nodelink]   SVG, PNG, PDF, JSON, DOT
//
// [pipeline] runs these stages with caching through [cache]; [server]
// exposes them over HTTP and [config] loads the settings for both.
//
// # Quick Start
//
//	r := pipeline.NewRunner(nil, nil, nil)
//	res, err := r.Execute(ctx, src, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    line, col := dsl.LineCol(src, errors.Position(err))
//	    ...
//	}
//	os.WriteFile("loops.svg", res.Artifacts["svg"], 0o644)
//
// [dsl]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/dsl
// [digraph]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/digraph
// [layout/stress]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/layout/stress
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/layout/force
// [scene]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/scene
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/loopline/pkg/config
package pkg
