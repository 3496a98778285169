package editor

import (
	"slices"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

// DragListener observes drags. Listeners are attached when a drag starts
// and detached when it ends.
type DragListener interface {
	OnDragStart(nodeID string)
	OnDragMove(nodeID string, p diagram.Point)
	// OnDragEnd is called once per drag. committed is true when the move
	// was recorded in history.
	OnDragEnd(nodeID string, committed bool)
}

type drag struct {
	nodeID    string
	origin    diagram.Point
	listeners []DragListener
}

// AddDragListener registers l for future drags and returns a function that
// unregisters it. A drag already in progress keeps its attached listeners.
func (s *Session) AddDragListener(l DragListener) (remove func()) {
	s.listeners = append(s.listeners, l)
	return func() {
		if i := slices.Index(s.listeners, l); i >= 0 {
			s.listeners = slices.Delete(s.listeners, i, i+1)
		}
	}
}

// Dragging returns the id of the node being dragged.
func (s *Session) Dragging() (string, bool) {
	if s.drag == nil {
		return "", false
	}
	return s.drag.nodeID, true
}

// BeginDrag grabs a node. Starting a drag while another is active commits
// the previous one first.
func (s *Session) BeginDrag(id string) error {
	n, ok := s.g.Node(id)
	if !ok {
		return s.done("drag", unknownNode(id))
	}
	if s.drag != nil {
		if _, err := s.EndDrag(); err != nil {
			return err
		}
	}

	s.drag = &drag{
		nodeID:    id,
		origin:    n.Position(),
		listeners: slices.Clone(s.listeners),
	}
	for _, l := range s.drag.listeners {
		l.OnDragStart(id)
	}
	s.log.Debug("drag start", "node", id, "x", n.X, "y", n.Y)
	return nil
}

// DragTo moves the dragged node to (x, y), clamped to the canvas, and
// returns the applied position. Nothing is recorded until release.
func (s *Session) DragTo(x, y float64) (diagram.Point, error) {
	if s.drag == nil {
		return diagram.Point{}, mmerrors.New(mmerrors.ErrCodeInvalidInput, "no drag in progress")
	}
	if err := mmerrors.ValidateCoordinate(x, y); err != nil {
		return diagram.Point{}, err
	}
	p := s.clamp(diagram.Point{X: x, Y: y})
	if err := s.g.MoveNode(s.drag.nodeID, p.X, p.Y); err != nil {
		return diagram.Point{}, classify(err)
	}
	for _, l := range s.drag.listeners {
		l.OnDragMove(s.drag.nodeID, p)
	}
	return p, nil
}

// DragBy moves the dragged node by an offset from its current position.
func (s *Session) DragBy(dx, dy float64) (diagram.Point, error) {
	if s.drag == nil {
		return diagram.Point{}, mmerrors.New(mmerrors.ErrCodeInvalidInput, "no drag in progress")
	}
	n, _ := s.g.Node(s.drag.nodeID)
	return s.DragTo(n.X+dx, n.Y+dy)
}

// EndDrag releases the dragged node and records a "move" entry when its
// position changed. It reports whether an entry was recorded; calling it
// while idle is a no-op.
func (s *Session) EndDrag() (bool, error) {
	d := s.drag
	if d == nil {
		return false, nil
	}
	s.drag = nil

	n, _ := s.g.Node(d.nodeID)
	moved := n.Position() != d.origin
	var err error
	if moved {
		err = s.record("move")
	}
	committed := moved && err == nil
	for _, l := range d.listeners {
		l.OnDragEnd(d.nodeID, committed)
	}
	s.log.Debug("drag end", "node", d.nodeID, "committed", committed)
	if !moved {
		return false, nil
	}
	return committed, s.done("move", err)
}

// CancelDrag puts the dragged node back where the drag started. It reports
// false when no drag was active.
func (s *Session) CancelDrag() bool {
	d := s.drag
	if d == nil {
		return false
	}
	s.drag = nil
	// The node may already be gone when a delete forced the cancel.
	_ = s.g.MoveNode(d.nodeID, d.origin.X, d.origin.Y)
	for _, l := range d.listeners {
		l.OnDragEnd(d.nodeID, false)
	}
	s.log.Debug("drag cancel", "node", d.nodeID)
	return true
}

// settleDrag ends an active drag before a structural action. The drag is
// cancelled when its node is about to be removed and committed otherwise.
func (s *Session) settleDrag(removing ...string) error {
	if s.drag == nil {
		return nil
	}
	if slices.Contains(removing, s.drag.nodeID) {
		s.CancelDrag()
		return nil
	}
	_, err := s.EndDrag()
	return err
}

// MoveNode moves a node in one step: a drag released immediately. It
// returns the clamped position that was applied.
func (s *Session) MoveNode(id string, x, y float64) (diagram.Point, error) {
	if err := mmerrors.ValidateCoordinate(x, y); err != nil {
		return diagram.Point{}, s.done("move", err)
	}
	if err := s.BeginDrag(id); err != nil {
		return diagram.Point{}, err
	}
	p, err := s.DragTo(x, y)
	if err != nil {
		s.CancelDrag()
		return diagram.Point{}, err
	}
	if _, err := s.EndDrag(); err != nil {
		return diagram.Point{}, err
	}
	return p, nil
}
