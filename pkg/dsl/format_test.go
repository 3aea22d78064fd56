package dsl

import (
	"reflect"
	"testing"
)

func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"@A(x) > @B(y) +> A;",
		"@births(Births) +> @population[Population] +> births;\n" +
			"population +> @deaths(Deaths) -> population;\n" +
			"deaths ||-> population; deaths ||-> population;",
		"@a() > @b(two words) ||> a; a > a;",
		"",
	}

	for _, src := range sources {
		vp, lp, err := Translate(src)
		if err != nil {
			t.Fatalf("Translate(%q) error = %v", src, err)
		}
		out := Format(vp, lp)

		vp2, lp2, err := Translate(out)
		if err != nil {
			t.Fatalf("Translate(Format()) error = %v\n%s", err, out)
		}
		if !reflect.DeepEqual(vp.Vertices(), vp2.Vertices()) {
			t.Errorf("vertices differ after round trip:\n%+v\n%+v", vp.Vertices(), vp2.Vertices())
		}
		if !reflect.DeepEqual(lp.Links(), lp2.Links()) {
			t.Errorf("links differ after round trip:\n%+v\n%+v", lp.Links(), lp2.Links())
		}
		if again := Format(vp2, lp2); again != out {
			t.Errorf("Format() not stable:\n%s\n---\n%s", out, again)
		}
	}
}

func TestFormat(t *testing.T) {
	vp, lp, err := Translate("@A(x) > @B[y] ||+> A;")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := "@A(x);\n@B[y];\nB ||+> A;\nA > B;\n"
	if got := Format(vp, lp); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestLineCol(t *testing.T) {
	src := "@A(x);\n@B(ü) > C;"
	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{5, 1, 6},
		{7, 2, 1},
		{13, 2, 6}, // after the two-byte ü
		{100, 2, 11},
		{-1, 0, 0},
	}

	for _, tt := range tests {
		line, col := LineCol(src, tt.offset)
		if line != tt.wantLine || col != tt.wantCol {
			t.Errorf("LineCol(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.wantLine, tt.wantCol)
		}
	}
}

func TestParsePolarity(t *testing.T) {
	for _, p := range []Polarity{PolarityDefault, PolarityPositive, PolarityNegative} {
		got, ok := ParsePolarity(p.String())
		if !ok || got != p {
			t.Errorf("ParsePolarity(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePolarity("sideways"); ok {
		t.Error("ParsePolarity(sideways) should fail")
	}
}
