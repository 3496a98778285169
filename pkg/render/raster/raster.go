// Package raster renders a diagram view as a PNG image.
package raster

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/fonts"
	"github.com/yash2003ruhela/mind-map/pkg/render"
)

// Option configures PNG rendering.
type Option func(*pngRenderer)

type pngRenderer struct {
	scale    float64
	fontSize float64
}

// WithScale sets the output scale factor (default 1; 2 for high-DPI).
func WithScale(s float64) Option { return func(r *pngRenderer) { r.scale = s } }

// WithFontSize sets the label size in pixels at scale 1.
func WithFontSize(size float64) Option { return func(r *pngRenderer) { r.fontSize = size } }

// RenderPNG draws v on a white background: edges first, then boxes and
// their labels.
func RenderPNG(v editor.View, opts ...Option) ([]byte, error) {
	r := pngRenderer{scale: 1, fontSize: render.DefaultFontSize}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", r.scale)
	}

	size := v.Bounds()
	dc := gg.NewContext(int(size.W*r.scale+0.5), int(size.H*r.scale+0.5))
	dc.SetColor(render.Background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	dc.SetColor(render.Ink)
	dc.SetLineWidth(render.EdgeWidth * r.scale)
	for _, e := range v.Edges {
		dc.DrawLine(e.Segment.From.X, e.Segment.From.Y, e.Segment.To.X, e.Segment.To.Y)
		dc.Stroke()
	}

	face, err := fonts.Face(r.fontSize * r.scale)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	dc.SetFontFace(face)

	w, h := v.NodeSize.W, v.NodeSize.H
	for _, n := range v.Nodes {
		dc.DrawRectangle(n.X, n.Y, w, h)
		dc.SetColor(render.Fill(n.Selected))
		dc.FillPreserve()
		dc.SetColor(render.Ink)
		dc.SetLineWidth(render.BorderWidth * r.scale)
		dc.Stroke()

		if n.Text != "" {
			label := render.TruncateLabel(n.Text, w, r.fontSize)
			dc.DrawStringAnchored(label, n.X+w/2, n.Y+h/2, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
