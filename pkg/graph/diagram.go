package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/loopline/pkg/geom"
)

// =============================================================================
// Diagram - Unified Visualization Format
// =============================================================================

// Diagram is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Loop ("loop"):
//	  - Vertices: boxes with wrapped text
//	  - Arcs: curved links with arrowheads, labels and delay markers
//	  - Controls: arc control points (kept for debug drawing)
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Width and Height give the frame for both.
type Diagram struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions and style
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Style    string  `json:"style,omitempty" bson:"style,omitempty"`
	FontSize float64 `json:"font_size,omitempty" bson:"font_size,omitempty"`

	// Loop-specific
	Vertices []Vertex     `json:"vertices,omitempty" bson:"vertices,omitempty"`
	Arcs     []Arc        `json:"arcs,omitempty" bson:"arcs,omitempty"`
	Controls []geom.Point `json:"controls,omitempty" bson:"controls,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsLoop returns true if this is a loop diagram.
func (d *Diagram) IsLoop() bool { return d.VizType == VizTypeLoop }

// IsNodelink returns true if this is a nodelink diagram.
func (d *Diagram) IsNodelink() bool { return d.VizType == VizTypeNodelink }

// Vertex returns the vertex with the given ID.
func (d *Diagram) Vertex(id string) (Vertex, bool) {
	for _, v := range d.Vertices {
		if v.ID == id {
			return v, true
		}
	}
	return Vertex{}, false
}

// =============================================================================
// Vertex - Positioned Box
// =============================================================================

// Vertex is a positioned vertex box. Box is centred on Pos and Lines holds
// the wrapped text, one entry per rendered line.
type Vertex struct {
	ID     string     `json:"id" bson:"id"`
	Text   string     `json:"text,omitempty" bson:"text,omitempty"`
	Framed bool       `json:"framed,omitempty" bson:"framed,omitempty"`
	Pos    geom.Point `json:"pos" bson:"pos"`
	Box    geom.Rect  `json:"box" bson:"box"`
	Lines  []string   `json:"lines,omitempty" bson:"lines,omitempty"`
}

// =============================================================================
// Arc - Curved Link
// =============================================================================

// Arc is a drawn link. Source, Control and Target are the three points the
// curve passes through. For curved arcs Center, Radius, Start and End
// describe the circle; LargeArc and Sweep are the matching SVG path flags.
// Straight arcs are drawn as the segment Source→Target.
type Arc struct {
	From     string `json:"from" bson:"from"`
	To       string `json:"to" bson:"to"`
	Polarity string `json:"polarity,omitempty" bson:"polarity,omitempty"`
	Color    string `json:"color" bson:"color"`
	Delayed  bool   `json:"delayed,omitempty" bson:"delayed,omitempty"`

	Source  geom.Point `json:"source" bson:"source"`
	Control geom.Point `json:"control" bson:"control"`
	Target  geom.Point `json:"target" bson:"target"`

	Straight bool       `json:"straight,omitempty" bson:"straight,omitempty"`
	Center   geom.Point `json:"center" bson:"center"`
	Radius   float64    `json:"radius,omitempty" bson:"radius,omitempty"`
	Start    float64    `json:"start,omitempty" bson:"start,omitempty"`
	End      float64    `json:"end,omitempty" bson:"end,omitempty"`
	LargeArc bool       `json:"large_arc,omitempty" bson:"large_arc,omitempty"`
	Sweep    bool       `json:"sweep,omitempty" bson:"sweep,omitempty"`

	Arrow     geom.Wedge     `json:"arrow" bson:"arrow"`
	Label     *Label         `json:"label,omitempty" bson:"label,omitempty"`
	DelayBars []geom.Segment `json:"delay_bars,omitempty" bson:"delay_bars,omitempty"`
}

// Label is a polarity sign placed next to an arrowhead.
type Label struct {
	Text string    `json:"text" bson:"text"`
	Box  geom.Rect `json:"box" bson:"box"`
}

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram serializes a Diagram to pretty-printed JSON bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram.
// Validates that required fields are present for the viz type.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, fmt.Errorf("unmarshal diagram: %w", err)
	}

	if d.VizType == "" {
		d.VizType = VizTypeLoop
	}

	switch d.VizType {
	case VizTypeLoop:
		for _, a := range d.Arcs {
			if _, ok := d.Vertex(a.From); !ok {
				return Diagram{}, fmt.Errorf("arc source %q is not a vertex", a.From)
			}
			if _, ok := d.Vertex(a.To); !ok {
				return Diagram{}, fmt.Errorf("arc target %q is not a vertex", a.To)
			}
		}
	case VizTypeNodelink:
		if d.DOT == "" {
			return Diagram{}, fmt.Errorf("nodelink diagram must contain DOT string")
		}
	default:
		return Diagram{}, fmt.Errorf("unknown viz type %q", d.VizType)
	}

	return d, nil
}

// WriteDiagramFile writes a Diagram to a JSON file.
func WriteDiagramFile(d Diagram, path string) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDiagramFile reads a Diagram from a JSON file.
func ReadDiagramFile(path string) (Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDiagram(data)
}
