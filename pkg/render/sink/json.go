package sink

import (
	"encoding/json"

	"github.com/matzehuels/loopline/pkg/graph"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	style   string
}

// WithJSONCompact drops indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// RenderJSON exports the diagram in its serialized form. The output can be
// read back with graph.UnmarshalDiagram and rendered again without layout.
func RenderJSON(d graph.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style != "" {
		d.Style = r.style
	}
	if r.compact {
		return json.Marshal(d)
	}
	return graph.MarshalDiagram(d)
}
