// Package pipeline provides the compile pipeline for loopline.
//
// This package implements the complete parse → layout → render pipeline used
// by the CLI and the HTTP API, so both entry points produce identical
// diagrams for identical input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: translate diagram source into vertex and link pools and build
//     the adjacency graph
//  2. Layout: stress majorization for vertex positions, a force simulation
//     for arc control points, then scene resolution into a [graph.Diagram]
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	parsed, err := pipeline.Parse(ctx, src)
//	diagram, info, err := pipeline.GenerateLayout(ctx, parsed.Graph, opts)
//	artifacts, err := pipeline.Render(diagram, parsed.Graph, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/loopline/pkg/cache"
	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/layout/force"
	"github.com/matzehuels/loopline/pkg/layout/stress"
	"github.com/matzehuels/loopline/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width.
	DefaultWidth = scene.DefaultWidth

	// DefaultHeight is the default frame height.
	DefaultHeight = scene.DefaultHeight

	// DefaultFontSize is the default vertex text size.
	DefaultFontSize = scene.DefaultFontSize

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeLoop

// DefaultStyle is the default visual style.
const DefaultStyle = graph.StyleSimple

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StyleSimple: true,
	graph.StyleDebug:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeLoop:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the compile pipeline. Zero values
// select the defaults. This struct supports JSON serialization for API
// requests.
type Options struct {
	// Layout options
	VizType  string  `json:"viz_type,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	Detailed bool    `json:"detailed,omitempty"` // nodelink: show names above texts

	// Global layout (stress majorization)
	Diameter       float64 `json:"diameter,omitempty"`
	Stiffness      float64 `json:"stiffness,omitempty"`
	Epsilon        float64 `json:"epsilon,omitempty"`
	MaxNewtonSteps int     `json:"max_newton_steps,omitempty"`
	MaxSweeps      int     `json:"max_sweeps,omitempty"`

	// Local layout (force simulation)
	Spacing     float64 `json:"spacing,omitempty"`
	Iterations  int     `json:"iterations,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Cooling     float64 `json:"cooling,omitempty"`
	DummyOffset float64 `json:"dummy_offset,omitempty"`
	FreezeReal  bool    `json:"freeze_real,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Vertices and Links are the pools produced by translation.
	Vertices *dsl.VertexPool
	Links    *dsl.LinkPool

	// Graph is the adjacency graph built from the pools.
	Graph *digraph.Graph

	// GraphHash is the content hash of the canonical graph JSON.
	GraphHash string

	// Diagram is the resolved, serializable diagram.
	Diagram graph.Diagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount int
	LinkCount   int
	ArcCount    int
	Sweeps      int     // stress sweeps until convergence
	Crowding    float64 // smallest distance between layout points
	Fallback    string  // why the global layout was abandoned, if it was
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid style: %q (must be one of: simple, debug)", style)
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid viz_type: %q (must be one of: loop, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies all defaults and validates the result.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout fields with their defaults, so that
// equivalent option sets produce the same cache key.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}

	s := stress.DefaultOptions()
	if o.Diameter <= 0 {
		o.Diameter = s.Diameter
	}
	if o.Stiffness <= 0 {
		o.Stiffness = s.Stiffness
	}
	if o.Epsilon <= 0 {
		o.Epsilon = s.Epsilon
	}
	if o.MaxNewtonSteps <= 0 {
		o.MaxNewtonSteps = s.MaxNewtonSteps
	}
	if o.MaxSweeps <= 0 {
		o.MaxSweeps = s.MaxSweeps
	}

	f := force.DefaultOptions()
	if o.Spacing <= 0 {
		o.Spacing = f.Spacing
	}
	if o.Iterations <= 0 {
		o.Iterations = f.Iterations
	}
	if o.Temperature <= 0 {
		o.Temperature = f.Temperature
	}
	if o.Cooling <= 0 || o.Cooling > 1 {
		o.Cooling = f.Cooling
	}
	if o.DummyOffset <= 0 {
		o.DummyOffset = f.DummyOffset
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Style != "" {
		return ValidateStyle(o.Style)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// IsLoop returns true if this is a loop visualization.
func (o *Options) IsLoop() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeLoop
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// IsDebug returns true if control points and chords should be drawn.
func (o *Options) IsDebug() bool {
	return o.Style == graph.StyleDebug
}

// StressOptions returns the global layout tuning.
func (o *Options) StressOptions() stress.Options {
	return stress.Options{
		Diameter:       o.Diameter,
		Stiffness:      o.Stiffness,
		Epsilon:        o.Epsilon,
		MaxNewtonSteps: o.MaxNewtonSteps,
		MaxSweeps:      o.MaxSweeps,
	}
}

// ForceOptions returns the local layout tuning.
func (o *Options) ForceOptions() force.Options {
	return force.Options{
		Spacing:     o.Spacing,
		Iterations:  o.Iterations,
		Temperature: o.Temperature,
		Cooling:     o.Cooling,
		DummyOffset: o.DummyOffset,
		FreezeReal:  o.FreezeReal,
	}
}

// SceneOptions returns the scene resolution settings.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{
		Width:    o.Width,
		Height:   o.Height,
		FontSize: o.FontSize,
		Debug:    o.IsDebug(),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:        o.VizType,
		Width:          o.Width,
		Height:         o.Height,
		FontSize:       o.FontSize,
		Diameter:       o.Diameter,
		Stiffness:      o.Stiffness,
		Epsilon:        o.Epsilon,
		MaxNewtonSteps: o.MaxNewtonSteps,
		MaxSweeps:      o.MaxSweeps,
		Spacing:        o.Spacing,
		Iterations:     o.Iterations,
		Temperature:    o.Temperature,
		Cooling:        o.Cooling,
		DummyOffset:    o.DummyOffset,
		FreezeReal:     o.FreezeReal,
		Detailed:       o.Detailed,
		Debug:          o.IsDebug(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		Background: o.Background,
		Scale:      o.Scale,
	}
}
