package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "n1", false},
		{"valid sequential", "node-12", false},
		{"valid uuid", "0b7e6f0c-4d5e-4a53-9d9a-1f2c3b4a5d6e", false},
		{"valid unicode", "knoten-ä", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"space", "node 1", true},
		{"tab", "node\t1", true},
		{"newline", "node\n1", true},
		{"null byte", "foo\x00bar", true},
		{"invalid utf8", "a\xff", true},
		{"truncated utf8", "knoten-\xc3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "Idea", false},
		{"special characters", `<b>"quoted" & 'apostrophe'</b>`, false},
		{"multi line", "first\nsecond", false},

		{"too long", strings.Repeat("x", MaxLabelLength+1), true},
		{"null byte", "a\x00b", true},
		{"invalid utf8", "lbl\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"fractional", 10.25, 33.125, false},
		{"negative", -5, -5, false},
		{"nan x", math.NaN(), 0, true},
		{"inf y", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.x, tt.y)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) error = %v, wantErr %v", tt.x, tt.y, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	formats := map[string]bool{"png": true, "svg": true}

	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"valid png", "mindmap.png", ""},
		{"valid nested", "out/diagram.svg", ""},
		{"no extension", "mindmap", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"control char", "mind\x01map.png", ErrCodeInvalidPath},
		{"unknown extension", "mindmap.gif", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input, formats)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateOutputPath(%q) code = %q, want %q", tt.input, got, tt.wantCode)
			}
		})
	}
}
