package diagram

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"
)

// NodeState is the persisted part of a node. Selection is view state and
// is deliberately absent.
type NodeState struct {
	ID   string
	X, Y float64
	Text string
}

// Snapshot is a self-contained copy of a graph: nodes in insertion order and
// edges in creation order. It holds only values, so it never aliases a live
// graph.
type Snapshot struct {
	Nodes []NodeState
	Edges []Edge
}

// Snapshot returns a deep copy of the current nodes and edges.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]NodeState, len(g.order)),
		Edges: make([]Edge, len(g.edges)),
	}
	for i, id := range g.order {
		n := g.nodes[id]
		s.Nodes[i] = NodeState{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text}
	}
	copy(s.Edges, g.edges)
	return s
}

// Restore replaces the whole graph with the content of s and clears the
// selection. The snapshot is validated first; on error the graph is left
// untouched and the error wraps ErrCorruptSnapshot.
func (g *Graph) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	nodes := make(map[string]*Node, len(s.Nodes))
	order := make([]string, len(s.Nodes))
	for i, ns := range s.Nodes {
		nodes[ns.ID] = &Node{ID: ns.ID, X: ns.X, Y: ns.Y, Text: ns.Text}
		order[i] = ns.ID
	}

	g.nodes = nodes
	g.order = order
	g.edges = slices.Clone(s.Edges)
	g.selection = nil
	return nil
}

// Validate checks that s describes a valid graph: non-empty unique ids,
// UTF-8 ids and labels, finite coordinates, and edges whose endpoints are
// distinct nodes of s.
// All nodes are checked before any edge.
func (s Snapshot) Validate() error {
	seen := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has an empty id", ErrCorruptSnapshot, i)
		}
		if !utf8.ValidString(n.ID) || !utf8.ValidString(n.Text) {
			return fmt.Errorf("%w: node %d has a malformed id or label", ErrCorruptSnapshot, i)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrCorruptSnapshot, n.ID)
		}
		if !finite(n.X) || !finite(n.Y) {
			return fmt.Errorf("%w: node %q has a non-finite position", ErrCorruptSnapshot, n.ID)
		}
		seen[n.ID] = true
	}
	for i, e := range s.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("%w: edge %d (%q-%q) references a missing node", ErrCorruptSnapshot, i, e.From, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("%w: edge %d loops on %q", ErrCorruptSnapshot, i, e.From)
		}
	}
	return nil
}

// Equal reports whether two snapshots hold the same nodes and edges in the
// same order. Nil and empty slices compare equal.
func (s Snapshot) Equal(o Snapshot) bool {
	return slices.Equal(s.Nodes, o.Nodes) && slices.Equal(s.Edges, o.Edges)
}

// Node returns the state of the node with the given id.
func (s Snapshot) Node(id string) (NodeState, bool) {
	i := slices.IndexFunc(s.Nodes, func(n NodeState) bool { return n.ID == id })
	if i < 0 {
		return NodeState{}, false
	}
	return s.Nodes[i], true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
