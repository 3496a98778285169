package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
	"github.com/yash2003ruhela/mind-map/pkg/history"
	"github.com/yash2003ruhela/mind-map/pkg/observability"
	"github.com/yash2003ruhela/mind-map/pkg/snapshot"
)

// Session is one editing session: a live graph plus its undo history.
type Session struct {
	g    *diagram.Graph
	h    *history.Manager
	opts Options
	log  *log.Logger

	drag      *drag
	listeners []DragListener
}

// NewSession creates a session holding an empty diagram. The empty state is
// recorded as the first history entry, so it is never undoable.
func NewSession(opts Options) (*Session, error) {
	if err := opts.normalize(); err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidConfig, err, "invalid editor options")
	}
	s := &Session{
		g:    diagram.New(diagram.WithParallelEdges(opts.AllowParallelEdges)),
		h:    history.New(opts.HistoryLimit),
		opts: opts,
		log:  opts.Logger,
	}
	if err := s.record("new"); err != nil {
		return nil, err
	}
	return s, nil
}

// Options returns the normalized options the session runs with.
func (s *Session) Options() Options { return s.opts }

// NewDiagram clears every node, edge and the selection. The cleared state is
// recorded, so a new diagram can be undone.
func (s *Session) NewDiagram() error {
	s.CancelDrag()
	s.g.Clear()
	return s.done("new", s.record("new"))
}

// AddNode creates a node at the default position with a generated id. An
// empty text labels the node with its id.
func (s *Session) AddNode(text string) (diagram.Node, error) {
	return s.CreateNode("", nil, text)
}

// CreateNode adds a node, filling in what the caller leaves out: an empty
// id is generated, a nil position means the default position and an empty
// text labels the node with its id.
func (s *Session) CreateNode(id string, at *diagram.Point, text string) (diagram.Node, error) {
	if id == "" {
		id = s.NextID()
	}
	if text == "" {
		text = id
	}
	p := s.opts.DefaultPosition
	if at != nil {
		p = *at
	}
	return s.AddNodeAt(id, p.X, p.Y, text)
}

// NextID returns the id AddNode would assign next.
func (s *Session) NextID() string {
	return s.opts.IDs(s.g.NodeCount(), s.g.HasNode)
}

// AddNodeAt creates a node with an explicit id. The position is clamped to
// the canvas.
func (s *Session) AddNodeAt(id string, x, y float64, text string) (diagram.Node, error) {
	if err := s.validateNode(id, x, y, text); err != nil {
		return diagram.Node{}, s.done("add", err)
	}
	if s.g.HasNode(id) {
		return diagram.Node{}, s.done("add", mmerrors.New(mmerrors.ErrCodeDuplicateID, "a node with id %q already exists", id))
	}
	if err := s.settleDrag(); err != nil {
		return diagram.Node{}, err
	}

	p := s.clamp(diagram.Point{X: x, Y: y})
	n, err := s.g.AddNode(id, p.X, p.Y, text)
	if err != nil {
		return diagram.Node{}, s.done("add", err)
	}
	return n, s.done("add", s.record("add"))
}

func (s *Session) validateNode(id string, x, y float64, text string) error {
	if err := mmerrors.ValidateNodeID(id); err != nil {
		return err
	}
	if err := mmerrors.ValidateCoordinate(x, y); err != nil {
		return err
	}
	return mmerrors.ValidateLabel(text)
}

// Connect joins the two selected nodes with an edge running from the older
// selection to the newer one, then clears the selection.
func (s *Session) Connect() (diagram.Edge, error) {
	sel := s.g.Selected()
	if len(sel) != diagram.MaxSelected {
		return diagram.Edge{}, s.done("connect", mmerrors.New(mmerrors.ErrCodeInvalidSelection,
			"select exactly two nodes to connect (%d selected)", len(sel)))
	}
	if !s.g.AllowsParallelEdges() && s.g.Connected(sel[0], sel[1]) {
		return diagram.Edge{}, s.done("connect", mmerrors.New(mmerrors.ErrCodeInvalidSelection,
			"%q and %q are already connected", sel[0], sel[1]))
	}
	if err := s.settleDrag(); err != nil {
		return diagram.Edge{}, err
	}

	e, err := s.g.AddEdge(sel[0], sel[1])
	if err != nil {
		return diagram.Edge{}, s.done("connect", err)
	}
	s.g.ClearSelection()
	return e, s.done("connect", s.record("connect"))
}

// DeleteSelected removes every selected node and the edges touching them.
func (s *Session) DeleteSelected() ([]diagram.Edge, error) {
	sel := s.g.Selected()
	if len(sel) == 0 {
		return nil, s.done("delete", mmerrors.New(mmerrors.ErrCodeInvalidSelection, "select a node to delete"))
	}
	return s.deleteNodes(sel...)
}

// DeleteNode removes one node and the edges touching it.
func (s *Session) DeleteNode(id string) ([]diagram.Edge, error) {
	if !s.g.HasNode(id) {
		return nil, s.done("delete", unknownNode(id))
	}
	return s.deleteNodes(id)
}

func (s *Session) deleteNodes(ids ...string) ([]diagram.Edge, error) {
	if err := s.settleDrag(ids...); err != nil {
		return nil, err
	}
	removed, err := s.g.RemoveNodes(ids...)
	if err != nil {
		return nil, s.done("delete", err)
	}
	return removed, s.done("delete", s.record("delete"))
}

// Disconnect removes one edge joining a and b, in either direction.
func (s *Session) Disconnect(a, b string) error {
	if !s.g.Connected(a, b) {
		return s.done("disconnect", mmerrors.New(mmerrors.ErrCodeUnknownEdge, "%q and %q are not connected", a, b))
	}
	if err := s.settleDrag(); err != nil {
		return err
	}
	if err := s.g.RemoveEdge(a, b); err != nil {
		return s.done("disconnect", err)
	}
	return s.done("disconnect", s.record("disconnect"))
}

// EditLabel replaces a node's text. Setting the text it already has is a
// no-op and records nothing.
func (s *Session) EditLabel(id, text string) error {
	n, ok := s.g.Node(id)
	if !ok {
		return s.done("edit", unknownNode(id))
	}
	if err := mmerrors.ValidateLabel(text); err != nil {
		return s.done("edit", err)
	}
	if n.Text == text {
		return nil
	}
	if err := s.settleDrag(); err != nil {
		return err
	}
	if err := s.g.SetText(id, text); err != nil {
		return s.done("edit", err)
	}
	return s.done("edit", s.record("edit"))
}

// Select toggles a node's selection and returns whether it is now
// selected. At most two nodes stay selected; a third evicts the oldest.
func (s *Session) Select(id string) (bool, error) {
	on, err := s.g.ToggleSelect(id)
	return on, classify(err)
}

// ClearSelection deselects every node.
func (s *Session) ClearSelection() { s.g.ClearSelection() }

// Undo restores the previous state. It reports false when there is
// nothing to undo. An active drag is cancelled first.
func (s *Session) Undo() (bool, error) {
	s.CancelDrag()
	e, ok := s.h.Undo()
	if !ok {
		observability.Editor().OnHistory(context.Background(), "undo", false)
		return false, nil
	}
	if err := s.restore(e); err != nil {
		s.h.Redo()
		return false, err
	}
	observability.Editor().OnHistory(context.Background(), "undo", true)
	s.log.Debug("undo", "to", e.Label, "nodes", s.g.NodeCount(), "edges", s.g.EdgeCount())
	return true, nil
}

// Redo reapplies the most recently undone state. It reports false when
// there is nothing to redo.
func (s *Session) Redo() (bool, error) {
	s.CancelDrag()
	e, ok := s.h.Redo()
	if !ok {
		observability.Editor().OnHistory(context.Background(), "redo", false)
		return false, nil
	}
	if err := s.restore(e); err != nil {
		s.h.Undo()
		return false, err
	}
	observability.Editor().OnHistory(context.Background(), "redo", true)
	s.log.Debug("redo", "to", e.Label, "nodes", s.g.NodeCount(), "edges", s.g.EdgeCount())
	return true, nil
}

func (s *Session) restore(e history.Entry) error {
	snap, err := s.opts.Codec.Decode(e.Data)
	if err != nil {
		return classify(err)
	}
	return classify(s.g.Restore(snap))
}

// Snapshot returns a copy of the current nodes and edges.
func (s *Session) Snapshot() diagram.Snapshot { return s.g.Snapshot() }

// ExportSnapshot encodes the current diagram as JSON.
func (s *Session) ExportSnapshot() ([]byte, error) {
	data, err := snapshot.JSON.Encode(s.g.Snapshot())
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// ImportSnapshot replaces the diagram with a JSON snapshot and records it
// as a "load" entry. Invalid data leaves the session untouched.
func (s *Session) ImportSnapshot(data []byte) error {
	snap, err := snapshot.JSON.Decode(data)
	if err != nil {
		return s.done("load", err)
	}
	return s.Load(snap)
}

// Load replaces the diagram with snap and records it. Positions are not
// clamped; a snapshot from a larger canvas keeps its layout.
func (s *Session) Load(snap diagram.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return s.done("load", err)
	}
	s.CancelDrag()
	if err := s.g.Restore(snap); err != nil {
		return s.done("load", err)
	}
	return s.done("load", s.record("load"))
}

// HistoryState describes the undo and redo stacks.
type HistoryState struct {
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
	Past    int  `json:"past"`
	Future  int  `json:"future"`
	Limit   int  `json:"limit"`
}

// History reports the state of the undo and redo stacks.
func (s *Session) History() HistoryState {
	past, future := s.h.Len()
	return HistoryState{
		CanUndo: s.h.CanUndo(),
		CanRedo: s.h.CanRedo(),
		Past:    past,
		Future:  future,
		Limit:   s.h.Limit(),
	}
}

func (s *Session) record(op string) error {
	data, err := s.opts.Codec.Encode(s.g.Snapshot())
	if err != nil {
		return mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "encode %s state", op)
	}
	s.h.Record(history.Entry{Data: data, Label: op, At: time.Now()})
	s.log.Debug("recorded", "op", op, "nodes", s.g.NodeCount(), "edges", s.g.EdgeCount(), "bytes", len(data))
	return nil
}

// done reports the outcome of a user action and returns err as a coded
// error.
func (s *Session) done(op string, err error) error {
	err = classify(err)
	observability.Editor().OnMutation(context.Background(), op, err)
	if err != nil {
		s.log.Debug("rejected", "op", op, "err", err)
	}
	return err
}

func (s *Session) clamp(p diagram.Point) diagram.Point {
	return diagram.Clamp(p, s.opts.Canvas, s.opts.NodeSize)
}
