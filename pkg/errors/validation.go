package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNodeIDLength bounds node identifiers accepted from user input.
const MaxNodeIDLength = 128

// MaxLabelLength bounds node label text.
const MaxLabelLength = 4096

// ValidateNodeID validates a node identifier supplied by a caller.
//
// The rules are conservative because ids travel through URLs and DOT
// output:
//   - No empty ids
//   - Valid UTF-8 only
//   - No control characters or whitespace
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	if !utf8.ValidString(id) {
		return New(ErrCodeInvalidInput, "node id is not valid UTF-8: %q", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid characters: %q", id)
		}
	}

	return nil
}

// ValidateLabel validates node label text. Empty labels are allowed.
func ValidateLabel(text string) error {
	if len(text) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "label is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "label contains a null byte")
	}
	return nil
}

// ValidateCoordinate rejects NaN and infinite positions.
func ValidateCoordinate(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return New(ErrCodeInvalidInput, "position must be finite, got (%v, %v)", x, y)
	}
	return nil
}

// ValidateOutputPath validates an export destination.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension, when present, must match one of the allowed formats
func ValidateOutputPath(path string, formats map[string]bool) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "" && formats != nil && !formats[ext] {
		return New(ErrCodeInvalidFormat, "unsupported output extension: %q", ext)
	}

	return nil
}
