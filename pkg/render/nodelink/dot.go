package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/render"
)

const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// ShowIDs labels nodes with their id under the text.
	ShowIDs bool
	// FontSize is the label size in points. Zero means render.DefaultFontSize.
	FontSize float64
}

// ToDOT converts a view to Graphviz DOT with pinned node positions.
func ToDOT(v editor.View, opts Options) string {
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = render.DefaultFontSize
	}
	size := v.Bounds()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=filled, fixedsize=true, width=%s, height=%s, fontsize=%s, fontcolor=black, color=black];\n",
		ftoa(v.NodeSize.W/pointsPerInch), ftoa(v.NodeSize.H/pointsPerInch), ftoa(fontSize))
	fmt.Fprintf(&buf, "  edge [color=black, penwidth=%s];\n", ftoa(render.EdgeWidth))
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		cx := n.X + v.NodeSize.W/2
		cy := size.H - (n.Y + v.NodeSize.H/2)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n.ID, n.Text, v.NodeSize.W, fontSize, opts.ShowIDs)),
			fmt.Sprintf("pos=\"%s,%s!\"", ftoa(cx), ftoa(cy)),
			"fillcolor=" + render.FillName(n.Selected),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id, text string, width, fontSize float64, showID bool) string {
	label := render.TruncateLabel(text, width, fontSize)
	if showID {
		return label + "\n" + id
	}
	return label
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG lays out a DOT graph with neato, honouring pinned positions,
// and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one so the SVG scales like the other exports.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
