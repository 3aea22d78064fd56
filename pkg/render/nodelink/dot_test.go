package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/loopline/pkg/digraph"
	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/graph"
)

func build(t *testing.T, src string) *digraph.Graph {
	t.Helper()
	vp, lp, err := dsl.Translate(src)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	g, err := digraph.Build(vp, lp)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := build(t, "@A(births) +> @B[population]; B ||-> A; B > @C();")

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default",
			want: []string{
				"rankdir=LR;",
				`"A" [label="births"];`,
				`"B" [label="population", penwidth=3];`,
				`"C" [label="C"];`,
				`"A" -> "B" [color="#08ABED", label="+", fontcolor="#08ABED"];`,
				`"B" -> "A" [color="#C73544", label="-", fontcolor="#C73544", style=dashed];`,
				`"B" -> "C" [color="#000000"];`,
			},
		},
		{
			name: "detailed top to bottom",
			opts: Options{Detailed: true, RankDir: "TB"},
			want: []string{
				"rankdir=TB;",
				`"A" [label="A\nbirths"];`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(g, tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %s\n%s", w, dot)
				}
			}
		})
	}
}

func TestExportParse(t *testing.T) {
	d := Export("digraph G {}", 800, 600)
	if !d.IsNodelink() || d.Engine != Engine {
		t.Errorf("Export() = %+v", d)
	}
	dot, err := Parse(d)
	if err != nil || dot != "digraph G {}" {
		t.Errorf("Parse() = %q, %v", dot, err)
	}

	if _, err := Parse(graph.Diagram{VizType: graph.VizTypeLoop, DOT: "x"}); err == nil {
		t.Error("Parse() accepted a loop diagram")
	}
	if _, err := Parse(graph.Diagram{VizType: graph.VizTypeNodelink}); err == nil {
		t.Error("Parse() accepted an empty DOT string")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(build(t, "@A(x) > @B(y) -> A;"), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg tag not normalized: %.200s", s)
	}
	if !strings.Contains(s, "#c73544") && !strings.Contains(s, "#C73544") {
		t.Error("negative edge colour missing")
	}

	if _, err := RenderSVG("digraph {"); err == nil {
		t.Error("RenderSVG() accepted invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
