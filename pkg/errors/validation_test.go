package errors

import (
	"strings"
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "@A(x) > @B(y);", false},
		{"multiline", "@A(x)\n\t> @B(y);\r\n", false},
		{"unicode text", "@A(über) > A;", false},

		{"null byte", "@A(x)\x00;", true},
		{"bell", "@A(\a);", true},
		{"invalid utf8", "@A(\xff);", true},
		{"too large", strings.Repeat("a", MaxSourceSize+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourcePosition(t *testing.T) {
	err := ValidateSource("ab\x01")
	if got := Position(err); got != 2 {
		t.Errorf("Position() = %d, want 2", got)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/loop.svg", false},
		{"valid absolute", "/tmp/loop.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"traversal", "out/../../etc", true},
		{"backslash", "out\\loop.svg", true},
		{"control char", "out\x01.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
