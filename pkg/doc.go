// Package pkg provides the libraries behind the mindmap diagram editor.
//
// # Overview
//
// Mindmap edits diagrams of labeled boxes joined by undirected lines. Every
// structural change is recorded as a serialized snapshot, so undo and redo
// are unlimited up to a configurable history limit. The pkg directory is
// organized into a few areas:
//
//  1. Model: [diagram] (graph, geometry, snapshots) and [snapshot] (codecs)
//  2. Editing: [editor] (sessions, selection, drags) and [history]
//  3. Output: [render] backends and the [pipeline] that runs them
//  4. Infrastructure: [cache], [config], [errors], [observability], [fonts]
//  5. Transport: [server], the JSON API used by browser front ends
//
// # Architecture
//
// The typical flow through mindmap:
//
//	user action (TUI key, HTTP request, replay script)
//	         ↓
//	    [editor] Session (validate, mutate, record history)
//	         ↓
//	    [editor] View (read model with edge segments)
//	         ↓
//	    [pipeline] Runner (cache lookup, render in parallel)
//	         ↓
//	    PNG/SVG/DOT/Graphviz SVG/JSON output
//
// # Quick Start
//
// Build a two-node diagram and render it:
//
//	import (
//	    "context"
//
//	    "github.com/yash2003ruhela/mind-map/pkg/cache"
//	    "github.com/yash2003ruhela/mind-map/pkg/editor"
//	    "github.com/yash2003ruhela/mind-map/pkg/pipeline"
//	)
//
//	sess, _ := editor.NewSession(editor.DefaultOptions())
//	sess.AddNodeAt("root", 50, 50, "Plan")
//	sess.AddNodeAt("idea", 300, 200, "Idea")
//	sess.Select("root")
//	sess.Select("idea")
//	sess.Connect()
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil)
//	result, _ := runner.Execute(context.Background(), sess.View(), pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// [diagram] - The graph: nodes in insertion order, undirected edges in
// creation order, a two-slot selection, and the centre-to-centre segment drawn
// for each edge.
//
// [editor] - Sessions that apply user actions, manage drags and keep the
// undo history in step with the graph.
//
// [snapshot] - JSON and MessagePack snapshot codecs, optionally zstd
// compressed.
//
// [render] - SVG, raster (PNG) and Graphviz (DOT and laid-out SVG)
// backends.
//
// [pipeline] - Validated render options and a runner that caches artifacts
// by content hash.
//
// [server] - chi router exposing one session over HTTP.
package pkg
