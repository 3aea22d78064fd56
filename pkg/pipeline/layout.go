package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/geom"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/layout/force"
	"github.com/matzehuels/loopline/pkg/layout/stress"
	"github.com/matzehuels/loopline/pkg/observability"
	"github.com/matzehuels/loopline/pkg/render/nodelink"
	"github.com/matzehuels/loopline/pkg/scene"
)

// LayoutInfo reports how a loop layout was reached.
type LayoutInfo struct {
	Sweeps   int     // stress sweeps performed
	Crowding float64 // smallest distance between layout points, 0 if fewer than two
	Fallback string  // non-empty when the stress layout failed
}

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the serializable diagram for g.
//
// Loop diagrams run stress majorization, the force simulation and scene
// resolution. Nodelink diagrams carry a DOT string for Graphviz.
func GenerateLayout(ctx context.Context, g *digraph.Graph, opts Options) (graph.Diagram, LayoutInfo, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Diagram{}, LayoutInfo{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, g.Len())
	start := time.Now()

	var (
		d    graph.Diagram
		info LayoutInfo
		err  error
	)
	if opts.IsNodelink() {
		d = generateNodelinkLayout(g, opts)
	} else {
		d, info, err = generateLoopLayout(ctx, g, opts)
	}

	hooks.OnLayoutComplete(ctx, opts.VizType, len(d.Arcs), time.Since(start), err)
	return d, info, err
}

// =============================================================================
// Loop
// =============================================================================

func generateLoopLayout(ctx context.Context, g *digraph.Graph, opts Options) (graph.Diagram, LayoutInfo, error) {
	pos, info := globalLayout(ctx, g, opts)
	if err := ctx.Err(); err != nil {
		return graph.Diagram{}, info, err
	}

	r, err := force.Run(g.Adjacency, pos, force.WithOptions(opts.ForceOptions()))
	if err != nil {
		return graph.Diagram{}, info, errors.Wrap(errors.ErrCodeInternal, err, "local layout")
	}
	if c := force.Crowding(r); !math.IsInf(c, 0) {
		info.Crowding = c
	}
	opts.Logger.Debug("local layout",
		"points", len(r.Points),
		"arcs", len(r.Arcs),
		"crowding", info.Crowding)

	return scene.Resolve(g, r, opts.SceneOptions()), info, nil
}

// globalLayout places the real vertices. A failed stress run keeps the
// positions it reached when they are all finite and restarts from the
// initial circle otherwise.
func globalLayout(ctx context.Context, g *digraph.Graph, opts Options) ([]geom.Point, LayoutInfo) {
	kk := stress.New(g.Adjacency, stress.WithOptions(opts.StressOptions()))
	err := kk.Run()
	info := LayoutInfo{Sweeps: kk.Sweeps()}
	if err == nil {
		opts.Logger.Debug("global layout", "vertices", g.Len(), "sweeps", info.Sweeps)
		return kk.Positions(), info
	}

	info.Fallback = errors.UserMessage(err)
	observability.Pipeline().OnLayoutFallback(ctx, info.Fallback)

	pos := kk.Positions()
	if allFinite(pos) {
		opts.Logger.Warn("stress layout failed, keeping reached positions", "err", info.Fallback)
		return pos, info
	}
	opts.Logger.Warn("stress layout failed, restarting from circle", "err", info.Fallback)
	return stress.New(g.Adjacency, stress.WithOptions(opts.StressOptions())).Positions(), info
}

func allFinite(pts []geom.Point) bool {
	for _, p := range pts {
		if !p.Finite() {
			return false
		}
	}
	return true
}

// =============================================================================
// Nodelink
// =============================================================================

func generateNodelinkLayout(g *digraph.Graph, opts Options) graph.Diagram {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	d := nodelink.Export(dot, opts.Width, opts.Height)
	d.Style = opts.Style
	if d.Style == "" {
		d.Style = DefaultStyle
	}
	return d
}
