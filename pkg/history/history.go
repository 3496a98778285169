// Package history keeps the undo and redo stacks of an editing session.
//
// A [Manager] holds two stacks of [Entry] values. The top of the past stack
// is always the state on screen, so a session records its initial state
// before the first edit and Undo refuses to pop the last remaining entry.
//
//	h := history.New(0)
//	h.Record(history.Entry{Data: initial, Label: "new"})
//	h.Record(history.Entry{Data: afterEdit, Label: "add"})
//	e, ok := h.Undo() // e.Data == initial, ok == true
//
// Entries are opaque bytes produced by a snapshot codec. The manager never
// inspects them.
package history

import "time"

// Entry is one recorded state.
type Entry struct {
	Data  []byte    // encoded snapshot
	Label string    // operation that produced the state
	At    time.Time // when it was recorded
}

// Manager is a bounded pair of undo and redo stacks. It is not safe for
// concurrent use.
type Manager struct {
	past   []Entry
	future []Entry
	limit  int
}

// New creates an empty manager. A limit of zero or less keeps every entry;
// otherwise the past stack never holds more than limit entries.
func New(limit int) *Manager {
	return &Manager{limit: limit}
}

// Record pushes e as the new current state and discards the redo stack.
func (m *Manager) Record(e Entry) {
	m.past = append(m.past, e)
	m.future = nil
	if m.limit > 0 && len(m.past) > m.limit {
		drop := len(m.past) - m.limit
		m.past = append(m.past[:0:0], m.past[drop:]...)
	}
}

// Undo moves the current state onto the redo stack and returns the state
// below it. It reports false, and changes nothing, when fewer than two
// entries are recorded.
func (m *Manager) Undo() (Entry, bool) {
	if len(m.past) <= 1 {
		return Entry{}, false
	}
	top := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, top)
	return m.past[len(m.past)-1], true
}

// Redo moves the most recently undone state back onto the past stack and
// returns it. It reports false when there is nothing to redo.
func (m *Manager) Redo() (Entry, bool) {
	if len(m.future) == 0 {
		return Entry{}, false
	}
	e := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, e)
	return e, true
}

// Current returns the top of the past stack.
func (m *Manager) Current() (Entry, bool) {
	if len(m.past) == 0 {
		return Entry{}, false
	}
	return m.past[len(m.past)-1], true
}

// CanUndo reports whether Undo would apply.
func (m *Manager) CanUndo() bool { return len(m.past) > 1 }

// CanRedo reports whether Redo would apply.
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Len returns the depth of both stacks.
func (m *Manager) Len() (past, future int) { return len(m.past), len(m.future) }

// Limit returns the configured bound, zero when unbounded.
func (m *Manager) Limit() int { return max(m.limit, 0) }

// Reset discards both stacks and starts over with e as the only entry.
func (m *Manager) Reset(e Entry) {
	m.past = []Entry{e}
	m.future = nil
}
