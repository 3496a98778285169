package render

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"unicode/utf8"
)

// Colors used by every renderer.
var (
	Background   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Ink          = color.RGBA{A: 0xff}
	SelectedFill = color.RGBA{R: 0x90, G: 0xee, B: 0x90, A: 0xff} // lightgreen
	NodeFill     = color.RGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff} // lightblue
)

// Stroke widths and label metrics, in pixels at scale 1.
const (
	EdgeWidth       = 2.0
	BorderWidth     = 1.0
	LabelPadding    = 6.0
	DefaultFontSize = 14.0

	fontCharWidth = 0.55
)

// Fill returns the box color for a node.
func Fill(selected bool) color.RGBA {
	if selected {
		return SelectedFill
	}
	return NodeFill
}

// FillName returns the SVG color keyword for a node.
func FillName(selected bool) string {
	if selected {
		return "lightgreen"
	}
	return "lightblue"
}

// TruncateLabel shortens label so it fits in width pixels at fontSize,
// ending it with ".." when cut. It never cuts inside a UTF-8 sequence.
func TruncateLabel(label string, width, fontSize float64) string {
	avail := width - 2*LabelPadding
	maxChars := max(3, int(avail/(fontSize*fontCharWidth)))
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes text for use in SVG and DOT HTML labels.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
