package diagram

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the id is empty or
	// not valid UTF-8.
	ErrInvalidNodeID = errors.New("node ID must be non-empty UTF-8")

	// ErrInvalidText is returned when a label is not valid UTF-8. Snapshot
	// codecs cannot carry such bytes unchanged.
	ErrInvalidText = errors.New("label must be valid UTF-8")

	// ErrDuplicateID is returned by [Graph.AddNode] when a node with the same
	// id already exists. Node ids are unique within a graph.
	ErrDuplicateID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation references a node id that
	// is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Graph.RemoveEdge] when no edge connects
	// the given pair.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrInvalidSelection is returned by [Graph.AddEdge] when both endpoints
	// are the same node.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrParallelEdge is returned by [Graph.AddEdge] when parallel edges are
	// disabled and the pair is already connected.
	ErrParallelEdge = errors.New("nodes are already connected")

	// ErrCorruptSnapshot is returned by [Graph.Restore] and [Snapshot.Validate]
	// when a snapshot cannot describe a valid graph.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// MaxSelected is the selection capacity. Selecting beyond it evicts the
// oldest selection.
const MaxSelected = 2

// Node is a labeled box on the canvas. X and Y are the top-left offset.
type Node struct {
	ID       string
	X, Y     float64
	Text     string
	Selected bool
}

// Position returns the node's top-left corner.
func (n Node) Position() Point { return Point{X: n.X, Y: n.Y} }

// Edge is a line between two nodes. It is stored directed but every
// matching helper treats it as undirected.
type Edge struct {
	From string
	To   string
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool { return e.From == id || e.To == id }

// Connects reports whether the edge joins a and b in either direction.
func (e Edge) Connects(a, b string) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Other returns the endpoint opposite id, or "" if id is not an endpoint.
func (e Edge) Other(id string) string {
	switch id {
	case e.From:
		return e.To
	case e.To:
		return e.From
	}
	return ""
}

// Option configures a Graph.
type Option func(*Graph)

// WithParallelEdges controls whether [Graph.AddEdge] accepts a second edge
// between an already connected pair. The default is true.
func WithParallelEdges(allow bool) Option {
	return func(g *Graph) { g.parallel = allow }
}

// Graph holds the live nodes, edges and selection of one diagram.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes     map[string]*Node
	order     []string // node ids in insertion order
	edges     []Edge
	selection []string // selected ids, oldest first
	parallel  bool
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make(map[string]*Node),
		parallel: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AllowsParallelEdges reports whether duplicate connections are accepted.
func (g *Graph) AllowsParallelEdges() bool { return g.parallel }

// AddNode adds an unselected node and returns a copy of it.
// Returns ErrInvalidNodeID for an empty or malformed id, ErrInvalidText for
// a malformed label, or ErrDuplicateID when the id is taken.
func (g *Graph) AddNode(id string, x, y float64, text string) (Node, error) {
	if id == "" || !utf8.ValidString(id) {
		return Node{}, fmt.Errorf("%w: %q", ErrInvalidNodeID, id)
	}
	if !utf8.ValidString(text) {
		return Node{}, ErrInvalidText
	}
	if _, exists := g.nodes[id]; exists {
		return Node{}, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	n := &Node{ID: id, X: x, Y: y, Text: text}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return *n, nil
}

// RemoveNode deletes a node and every edge touching it. The removed edges
// are returned in storage order. Returns ErrUnknownNode if id is absent, in
// which case nothing changes.
func (g *Graph) RemoveNode(id string) ([]Edge, error) {
	return g.RemoveNodes(id)
}

// RemoveNodes deletes several nodes and cascades to their edges. All ids are
// checked before anything is removed; repeated ids are ignored.
func (g *Graph) RemoveNodes(ids ...string) ([]Edge, error) {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
		}
		doomed[id] = true
	}
	if len(doomed) == 0 {
		return nil, nil
	}

	var removed []Edge
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if doomed[e.From] || doomed[e.To] {
			removed = append(removed, e)
			return true
		}
		return false
	})
	for id := range doomed {
		delete(g.nodes, id)
	}
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return doomed[id] })
	g.selection = slices.DeleteFunc(g.selection, func(id string) bool { return doomed[id] })
	return removed, nil
}

// AddEdge connects two existing nodes, storing the edge as a→b.
// Returns ErrUnknownNode if either endpoint is missing, ErrInvalidSelection
// if a == b, and ErrParallelEdge if parallel edges are disabled and the
// pair is already connected.
func (g *Graph) AddEdge(a, b string) (Edge, error) {
	if _, ok := g.nodes[a]; !ok {
		return Edge{}, fmt.Errorf("%w: %q", ErrUnknownNode, a)
	}
	if _, ok := g.nodes[b]; !ok {
		return Edge{}, fmt.Errorf("%w: %q", ErrUnknownNode, b)
	}
	if a == b {
		return Edge{}, fmt.Errorf("%w: cannot connect %q to itself", ErrInvalidSelection, a)
	}
	if !g.parallel && g.Connected(a, b) {
		return Edge{}, fmt.Errorf("%w: %q and %q", ErrParallelEdge, a, b)
	}
	e := Edge{From: a, To: b}
	g.edges = append(g.edges, e)
	return e, nil
}

// RemoveEdge removes the first edge joining a and b in either direction.
// Returns ErrUnknownEdge if the pair is not connected.
func (g *Graph) RemoveEdge(a, b string) error {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.Connects(a, b) })
	if i < 0 {
		return fmt.Errorf("%w: %q-%q", ErrUnknownEdge, a, b)
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	return nil
}

// Connected reports whether any edge joins a and b.
func (g *Graph) Connected(a, b string) bool {
	return slices.ContainsFunc(g.edges, func(e Edge) bool { return e.Connects(a, b) })
}

// MoveNode sets a node's position. It does not clamp; bounds belong to the
// caller that owns the canvas.
func (g *Graph) MoveNode(id string, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	n.X, n.Y = x, y
	return nil
}

// SetText replaces a node's label.
func (g *Graph) SetText(id, text string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if !utf8.ValidString(text) {
		return ErrInvalidText
	}
	n.Text = text
	return nil
}

// ToggleSelect flips a node's selection flag and returns the new value.
// Selecting a node when MaxSelected are already selected clears the oldest
// selection first.
func (g *Graph) ToggleSelect(id string) (bool, error) {
	n, ok := g.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if n.Selected {
		n.Selected = false
		g.selection = slices.DeleteFunc(g.selection, func(s string) bool { return s == id })
		return false, nil
	}

	n.Selected = true
	g.selection = append(g.selection, id)
	for len(g.selection) > MaxSelected {
		evicted := g.selection[0]
		g.selection = g.selection[1:]
		g.nodes[evicted].Selected = false
	}
	return true, nil
}

// ClearSelection deselects every node.
func (g *Graph) ClearSelection() {
	for _, id := range g.selection {
		g.nodes[id].Selected = false
	}
	g.selection = nil
}

// Selected returns the selected ids, oldest selection first.
func (g *Graph) Selected() []string {
	return slices.Clone(g.selection)
}

// Clear removes all nodes, edges and the selection.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
	g.selection = nil
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in creation order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgesOf returns the edges touching id.
func (g *Graph) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
