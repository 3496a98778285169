// Package pipeline renders diagram views into export artifacts.
//
// This package is the single export path used by the CLI, the editor TUI
// and the HTTP API, so every entry point produces identical files.
//
// # Usage
//
// Render one or more formats from a session view:
//
//	opts := pipeline.Options{Formats: []string{"png", "svg"}, Scale: 2}
//	artifacts, err := pipeline.Render(ctx, session.View(), opts)
//	png := artifacts["png"]
//
// A [Runner] adds logging and an artifact cache on top of [Render]:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(32<<20), logger)
//	result, err := runner.Execute(ctx, session.View(), opts)
package pipeline

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/yash2003ruhela/mind-map/pkg/render"
)

// Format constants for output formats.
const (
	FormatPNG      = "png"
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // SVG laid out by Graphviz from the DOT source
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:      true,
	FormatSVG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatJSON:     true,
}

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatPNG

var extensions = map[string]string{
	FormatPNG:      ".png",
	FormatSVG:      ".svg",
	FormatDOT:      ".dot",
	FormatGraphviz: ".gv.svg",
	FormatJSON:     ".json",
}

var contentTypes = map[string]string{
	FormatPNG:      "image/png",
	FormatSVG:      "image/svg+xml",
	FormatDOT:      "text/vnd.graphviz",
	FormatGraphviz: "image/svg+xml",
	FormatJSON:     "application/json",
}

// Extension returns the file extension written for format.
func Extension(format string) string { return extensions[format] }

// ContentType returns the MIME type of format.
func ContentType(format string) string { return contentTypes[format] }

// FormatFromPath infers the format from a file name. It returns "" when the
// extension is not recognised.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, extensions[FormatGraphviz]) {
		return FormatGraphviz
	}
	ext := filepath.Ext(lower)
	for f, e := range extensions {
		if e == ext {
			return f
		}
	}
	return ""
}

// Options configures a render.
type Options struct {
	Formats  []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=png svg dot graphviz json"`
	Scale    float64  `json:"scale,omitempty" validate:"omitempty,gt=0,lte=8"`
	FontSize float64  `json:"font_size,omitempty" validate:"omitempty,gt=0,lte=96"`
	ShowIDs  bool     `json:"show_ids,omitempty"`
	Title    string   `json:"title,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHits lists the formats served from the cache.
	CacheHits []string
}

// Stats contains render statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
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

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults checks the formats and fills zero values.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", o.Scale)
	}
	if o.FontSize == 0 {
		o.FontSize = render.DefaultFontSize
	}
	if o.FontSize < 0 {
		return fmt.Errorf("font size must be positive, got %v", o.FontSize)
	}
	return nil
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
