// Package diagram provides the graph store behind the mind-map editor:
// labeled, positioned nodes joined by undirected lines.
//
// # Overview
//
// A [Graph] owns three pieces of state:
//
//   - Nodes keyed by a unique string id, kept in insertion order
//   - Edges stored as (From, To) pairs but matched symmetrically
//   - A selection queue holding at most two node ids, oldest first
//
// Every mutation validates before it touches state, so a failed call
// leaves the graph exactly as it was.
//
// # Basic Usage
//
//	g := diagram.New()
//	_, _ = g.AddNode("n1", 10, 10, "A")
//	_, _ = g.AddNode("n2", 50, 50, "B")
//	_, _ = g.AddEdge("n1", "n2")
//
// Deleting a node with [Graph.RemoveNode] removes every edge touching it.
//
// # Selection
//
// [Graph.ToggleSelect] flips a node's selection flag. When a third node is
// selected the oldest selection is evicted, so at most two nodes are ever
// selected. Selection is view state: it is not part of a [Snapshot].
//
// # Snapshots
//
// [Graph.Snapshot] returns a deep copy made of plain values. Mutating the
// graph afterwards never changes a snapshot, and [Graph.Restore] copies the
// snapshot in rather than aliasing it. Restore validates first and returns
// [ErrCorruptSnapshot] without touching the graph when the snapshot holds
// duplicate ids or dangling edges.
//
// # Geometry
//
// Edge coordinates are derived, not stored: [Graph.Segment] joins the
// centres of the two endpoint boxes for a given node [Size]. [Clamp] keeps a
// position inside a canvas; callers that own the canvas apply it.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The editor drives a
// graph from a single input loop.
package diagram
