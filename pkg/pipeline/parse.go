package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/observability"
)

// Parsed is the output of the parse stage.
type Parsed struct {
	Vertices *dsl.VertexPool
	Links    *dsl.LinkPool
	Graph    *digraph.Graph
}

// Parse translates diagram source and builds its adjacency graph. Errors
// from the translator carry a source offset; see errors.Position.
func Parse(ctx context.Context, src string) (*Parsed, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(src))
	start := time.Now()

	p, err := parse(ctx, src)

	var vertices, links int
	if p != nil {
		vertices, links = p.Vertices.Len(), p.Links.Len()
	}
	hooks.OnParseComplete(ctx, vertices, links, time.Since(start), err)
	return p, err
}

func parse(ctx context.Context, src string) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.ValidateSource(src); err != nil {
		return nil, err
	}
	vp, lp, err := dsl.Translate(src)
	if err != nil {
		return nil, err
	}
	g, err := digraph.Build(vp, lp)
	if err != nil {
		return nil, err
	}
	return &Parsed{Vertices: vp, Links: lp, Graph: g}, nil
}

// Format parses src and prints it back in canonical form: one statement
// per vertex definition followed by one statement per link.
func Format(ctx context.Context, src string) (string, error) {
	p, err := Parse(ctx, src)
	if err != nil {
		return "", err
	}
	return dsl.Format(p.Vertices, p.Links), nil
}
