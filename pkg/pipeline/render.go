package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/observability"
	"github.com/matzehuels/loopline/pkg/render/nodelink"
	"github.com/matzehuels/loopline/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. g is only
// needed for DOT output of loop diagrams and may be nil otherwise.
func Render(ctx context.Context, d graph.Diagram, g *digraph.Graph, opts Options) (map[string][]byte, error) {
	opts = applyDiagramMetadata(opts, d)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		artifacts map[string][]byte
		err       error
	)
	if d.IsNodelink() {
		artifacts, err = renderNodelink(d, opts)
	} else {
		artifacts, err = renderLoop(d, g, opts)
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// RenderFromDiagramData renders a serialized diagram. This is used when the
// diagram was computed elsewhere and stored.
func RenderFromDiagramData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	d, err := graph.UnmarshalDiagram(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse diagram")
	}
	return Render(ctx, d, nil, opts)
}

// applyDiagramMetadata carries the diagram's viz type and style into opts
// when the caller left them unset.
func applyDiagramMetadata(opts Options, d graph.Diagram) Options {
	if d.VizType != "" {
		opts.VizType = d.VizType
	}
	if opts.Style == "" && d.Style != "" {
		opts.Style = d.Style
	}
	return opts
}

func renderLoop(d graph.Diagram, g *digraph.Graph, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(d, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(d, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(d, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(d, sink.WithJSONStyle(opts.Style))
		case FormatDOT:
			if g == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "dot output needs the source graph")
			}
			data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported loop format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(d graph.Diagram, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "nodelink diagram")
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatJSON:
			data, err = graph.MarshalDiagram(d)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.IsDebug() {
		svgOpts = append(svgOpts, sink.WithDebug())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}
