// Package svg renders a diagram view as a standalone SVG document.
package svg

import (
	"bytes"
	"fmt"

	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/fonts"
	"github.com/yash2003ruhela/mind-map/pkg/render"
)

// Option configures SVG rendering.
type Option func(*svgRenderer)

type svgRenderer struct {
	fontSize   float64
	fontFamily string
	title      string
}

// WithFontSize sets the label size in pixels.
func WithFontSize(size float64) Option { return func(r *svgRenderer) { r.fontSize = size } }

// WithFontFamily overrides the CSS font stack.
func WithFontFamily(family string) Option { return func(r *svgRenderer) { r.fontFamily = family } }

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws v: background, then edges, then boxes with labels.
func RenderSVG(v editor.View, opts ...Option) []byte {
	r := svgRenderer{fontSize: render.DefaultFontSize, fontFamily: fonts.Family}
	for _, opt := range opts {
		opt(&r)
	}

	size := v.Bounds()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		size.W, size.H, size.W, size.H)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", render.EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="white"/>`+"\n")

	buf.WriteString(`  <g class="edges" stroke="black" stroke-width="` + ftoa(render.EdgeWidth) + `">` + "\n")
	for _, e := range v.Edges {
		s := e.Segment
		fmt.Fprintf(&buf, `    <line data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			render.EscapeXML(e.From), render.EscapeXML(e.To), s.From.X, s.From.Y, s.To.X, s.To.Y)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="nodes" font-family="%s" font-size="%s">`+"\n", render.EscapeXML(r.fontFamily), ftoa(r.fontSize))
	w, h := v.NodeSize.W, v.NodeSize.H
	for _, n := range v.Nodes {
		fmt.Fprintf(&buf, `    <g id="node-%s">`+"\n", render.EscapeXML(n.ID))
		fmt.Fprintf(&buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="black" stroke-width="%s"/>`+"\n",
			n.X, n.Y, w, h, render.FillName(n.Selected), ftoa(render.BorderWidth))
		if n.Text != "" {
			fmt.Fprintf(&buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" fill="black">%s</text>`+"\n",
				n.X+w/2, n.Y+h/2, render.EscapeXML(render.TruncateLabel(n.Text, w, r.fontSize)))
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func ftoa(f float64) string { return fmt.Sprintf("%g", f) }
