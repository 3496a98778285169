// Package editor turns user actions into graph mutations with undo and
// redo.
//
// # Sessions
//
// A [Session] owns one [diagram.Graph] and one [history.Manager]. Every
// successful action mutates the graph and then records exactly one encoded
// snapshot, so the top of the undo stack is always the diagram on screen:
//
//	s, err := editor.NewSession(editor.DefaultOptions())
//	a, _ := s.AddNode("Idea")
//	b, _ := s.AddNode("Detail")
//	_, _ = s.Select(a.ID)
//	_, _ = s.Select(b.ID)
//	_, _ = s.Connect()
//	_, _ = s.Undo() // the line is gone, both nodes remain
//
// Selection changes and drag moves are not recorded. A drag records a
// single "move" entry when it is released at a new position.
//
// # Errors
//
// Failed actions leave the graph and history untouched and return a
// [errors.Error] whose code is one of DUPLICATE_ID, UNKNOWN_NODE,
// UNKNOWN_EDGE, INVALID_SELECTION, CORRUPT_SNAPSHOT or INVALID_INPUT.
// Undo and redo with nothing to do are not errors; they report false.
//
// # Dragging
//
// A session is either idle or dragging one node. [DragListener] values
// registered with [Session.AddDragListener] are attached when a drag starts
// and detached when it ends, whether by release, cancel, or an action that
// forces the drag to end. Deleting the dragged node cancels the drag;
// other structural actions commit it first.
//
// # Concurrency
//
// Sessions are not safe for concurrent use. Front ends serialize access.
package editor
