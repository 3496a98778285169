package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/observability"
	"github.com/yash2003ruhela/mind-map/pkg/render/nodelink"
	"github.com/yash2003ruhela/mind-map/pkg/render/raster"
	"github.com/yash2003ruhela/mind-map/pkg/render/svg"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, v editor.View, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, v, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders a single format. opts must already be validated.
func RenderFormat(ctx context.Context, v editor.View, format string, opts Options) (data []byte, err error) {
	start := time.Now()
	defer func() {
		observability.Export().OnExport(ctx, format, len(data), time.Since(start), err)
	}()

	switch format {
	case FormatPNG:
		data, err = raster.RenderPNG(v, raster.WithScale(opts.Scale), raster.WithFontSize(opts.FontSize))
	case FormatSVG:
		svgOpts := []svg.Option{svg.WithFontSize(opts.FontSize)}
		if opts.Title != "" {
			svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
		}
		data = svg.RenderSVG(v, svgOpts...)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(v, nodelinkOptions(opts)))
	case FormatGraphviz:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(v, nodelinkOptions(opts)))
	case FormatJSON:
		data, err = snapshot.JSON.Encode(SnapshotOf(v))
	default:
		err = ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{ShowIDs: opts.ShowIDs, FontSize: opts.FontSize}
}

// SnapshotOf rebuilds the persisted state shown by v.
func SnapshotOf(v editor.View) diagram.Snapshot {
	s := diagram.Snapshot{
		Nodes: make([]diagram.NodeState, len(v.Nodes)),
		Edges: make([]diagram.Edge, len(v.Edges)),
	}
	for i, n := range v.Nodes {
		s.Nodes[i] = diagram.NodeState{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text}
	}
	for i, e := range v.Edges {
		s.Edges[i] = e.Edge
	}
	return s
}
