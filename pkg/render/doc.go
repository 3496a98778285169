// Package render holds the drawing rules shared by every diagram export.
//
// # Overview
//
// Renderers consume an [editor.View] and never touch a live session. They
// all follow the same rules:
//
//   - White background sized to the canvas, grown to fit loaded nodes
//   - Edges drawn first, as 2px black lines between box centres
//   - Boxes filled lightgreen when selected and lightblue otherwise
//   - Labels in black, centred in the box, shortened to fit
//
// # Subpackages
//
//   - [svg]: hand-written SVG output
//   - [raster]: PNG output drawn with fogleman/gg
//   - [nodelink]: Graphviz DOT source with pinned positions, and SVG
//     rendered from it by goccy/go-graphviz
//
// The export pipeline in pkg/pipeline picks a renderer per format.
//
// [editor.View]: github.com/yash2003ruhela/mind-map/pkg/editor.View
// [svg]: github.com/yash2003ruhela/mind-map/pkg/render/svg
// [raster]: github.com/yash2003ruhela/mind-map/pkg/render/raster
// [nodelink]: github.com/yash2003ruhela/mind-map/pkg/render/nodelink
package render
