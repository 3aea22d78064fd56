package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/loopline/pkg/cache"
	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
	keyTypeDiagram  = "diagram"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects cache.DefaultKeyer, a nil
// cache disables caching and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	p, err := Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	result.Vertices, result.Links, result.Graph = p.Vertices, p.Links, p.Graph
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.VertexCount = p.Vertices.Len()
	result.Stats.LinkCount = p.Links.Len()
	if data, err := graph.MarshalGraph(p.Graph); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	opts.Logger.Info("parsed source",
		"vertices", result.Stats.VertexCount,
		"links", result.Stats.LinkCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	d, info, hit, err := r.LayoutWithCacheInfo(ctx, p.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ArcCount = len(d.Arcs)
	result.Stats.Sweeps = info.Sweeps
	result.Stats.Crowding = info.Crowding
	result.Stats.Fallback = info.Fallback
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"arcs", result.Stats.ArcCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, d, p.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the diagram for g with caching. The layout
// info is only populated when the diagram was computed, not cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *digraph.Graph, opts Options) (graph.Diagram, LayoutInfo, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Diagram{}, LayoutInfo{}, false, err
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return graph.Diagram{}, LayoutInfo{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, key, keyTypeLayout); ok {
			if d, err := graph.UnmarshalDiagram(data); err == nil {
				return d, LayoutInfo{}, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached layout", "key", key)
		}
	}

	d, info, err := GenerateLayout(ctx, g, opts)
	if err != nil {
		return graph.Diagram{}, info, false, err
	}
	if data, err := graph.MarshalDiagram(d); err == nil {
		r.store(ctx, key, keyTypeLayout, data, cache.LayoutTTL)
	}
	return d, info, false, nil
}

// Layout is LayoutWithCacheInfo without the cache information.
func (r *Runner) Layout(ctx context.Context, g *digraph.Graph, opts Options) (graph.Diagram, error) {
	d, _, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return d, err
}

// RenderWithCacheInfo renders d with caching and reports whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d graph.Diagram, g *digraph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts = applyDiagramMetadata(opts, d)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	diagramData, err := graph.MarshalDiagram(d)
	if err != nil {
		return nil, false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	layoutHash := cache.Hash(diagramData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			// DOT for loop diagrams is derived from the graph, not the diagram.
			if format == FormatDOT && !d.IsNodelink() {
				break
			}
			data, ok := r.lookup(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), keyTypeArtifact)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, d, g, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		if format == FormatDOT && !d.IsNodelink() {
			continue
		}
		r.store(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), keyTypeArtifact, data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache information.
func (r *Runner) Render(ctx context.Context, d graph.Diagram, g *digraph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, g, opts)
	return artifacts, err
}

// SaveDiagram stores d under id so it can be rendered again later.
func (r *Runner) SaveDiagram(ctx context.Context, id string, d graph.Diagram) error {
	data, err := graph.MarshalDiagram(d)
	if err != nil {
		return err
	}
	if err := r.Cache.Set(ctx, r.Keyer.DiagramKey(id), data, cache.DiagramTTL); err != nil {
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeDiagram, len(data))
	return nil
}

// LoadDiagram returns the diagram stored under id. ok is false when no
// diagram exists.
func (r *Runner) LoadDiagram(ctx context.Context, id string) (d graph.Diagram, ok bool, err error) {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.DiagramKey(id))
	if err != nil {
		return graph.Diagram{}, false, fmt.Errorf("load diagram %s: %w", id, err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeDiagram)
		return graph.Diagram{}, false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyTypeDiagram)
	d, err = graph.UnmarshalDiagram(data)
	if err != nil {
		return graph.Diagram{}, false, fmt.Errorf("load diagram %s: %w", id, err)
	}
	return d, true, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads a cache entry. Backend errors are logged and treated as
// misses so a broken cache never fails a compile.
func (r *Runner) lookup(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
