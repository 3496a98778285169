// Package nodelink exports diagrams as Graphviz graphs.
//
// # Overview
//
// [ToDOT] writes an undirected DOT graph in which every node is pinned to
// its canvas position, so Graphviz reproduces the user's layout instead of
// computing its own. [RenderSVG] runs that source through the neato engine
// in-process.
//
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Coordinates
//
// Canvas coordinates grow downwards while Graphviz's grow upwards, so y is
// flipped against the view height. Positions are written in points with
// inputscale=72, which makes one canvas pixel one point.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No Graphviz installation is needed.
package nodelink
