package editor

import "github.com/yash2003ruhela/mind-map/pkg/diagram"

// View is a read-only picture of a session for renderers and front ends.
// It shares no memory with the session.
type View struct {
	Canvas   diagram.Size
	NodeSize diagram.Size
	Nodes    []diagram.Node // insertion order, with selection flags
	Edges    []EdgeView     // creation order
	Selected []string       // oldest first
	Dragging string         // empty when idle
}

// EdgeView is an edge together with the line drawn for it.
type EdgeView struct {
	diagram.Edge
	Segment diagram.Segment
}

// View returns the current read model.
func (s *Session) View() View {
	v := View{
		Canvas:   s.opts.Canvas,
		NodeSize: s.opts.NodeSize,
		Nodes:    s.g.Nodes(),
		Selected: s.g.Selected(),
	}
	if s.drag != nil {
		v.Dragging = s.drag.nodeID
	}
	edges := s.g.Edges()
	v.Edges = make([]EdgeView, 0, len(edges))
	for _, e := range edges {
		seg, ok := s.g.Segment(e, s.opts.NodeSize)
		if !ok {
			continue
		}
		v.Edges = append(v.Edges, EdgeView{Edge: e, Segment: seg})
	}
	return v
}

// Node returns the node with the given id.
func (v View) Node(id string) (diagram.Node, bool) {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return diagram.Node{}, false
}

// Bounds returns the smallest size that contains the canvas and every node.
// Loaded snapshots may place nodes beyond the configured canvas.
func (v View) Bounds() diagram.Size {
	b := v.Canvas
	for _, n := range v.Nodes {
		b.W = max(b.W, n.X+v.NodeSize.W)
		b.H = max(b.H, n.Y+v.NodeSize.H)
	}
	return b
}
