package editor

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

type recordingListener struct {
	events []string
}

func (r *recordingListener) OnDragStart(id string) {
	r.events = append(r.events, "start "+id)
}

func (r *recordingListener) OnDragMove(id string, p diagram.Point) {
	r.events = append(r.events, fmt.Sprintf("move %s %v,%v", id, p.X, p.Y))
}

func (r *recordingListener) OnDragEnd(id string, committed bool) {
	r.events = append(r.events, fmt.Sprintf("end %s %t", id, committed))
}

func TestDragRecordsOnceOnRelease(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	past := s.History().Past

	require.NoError(t, s.BeginDrag("a"))
	for i := 1; i <= 5; i++ {
		_, err := s.DragTo(float64(i*10), float64(i*10))
		require.NoError(t, err)
	}
	assert.Equal(t, past, s.History().Past, "moves are not recorded while dragging")

	committed, err := s.EndDrag()
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, past+1, s.History().Past)

	ok, _ := s.Undo()
	require.True(t, ok)
	n, _ := s.View().Node("a")
	assert.Equal(t, diagram.Point{}, n.Position())
}

func TestDragWithoutMovementRecordsNothing(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 30, 30, "")
	past := s.History().Past

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.DragTo(90, 90)
	_, _ = s.DragTo(30, 30)
	committed, err := s.EndDrag()
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, past, s.History().Past)
}

func TestDragClampsToCanvas(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	require.NoError(t, s.BeginDrag("a"))

	tests := []struct {
		x, y float64
		want diagram.Point
	}{
		{-50, 20, diagram.Point{X: 0, Y: 20}},
		{9000, 9000, diagram.Point{X: 700, Y: 560}},
		{350, 280, diagram.Point{X: 350, Y: 280}},
	}
	for _, tt := range tests {
		p, err := s.DragTo(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p)
		n, _ := s.View().Node("a")
		assert.Equal(t, tt.want, n.Position())
	}

	p, err := s.DragBy(1000, 0)
	require.NoError(t, err)
	assert.Equal(t, diagram.Point{X: 700, Y: 280}, p)
}

func TestCancelDragReverts(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 40, 40, "")
	past := s.History().Past
	l := &recordingListener{}
	s.AddDragListener(l)

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.DragTo(100, 100)
	assert.True(t, s.CancelDrag())

	n, _ := s.View().Node("a")
	assert.Equal(t, diagram.Point{X: 40, Y: 40}, n.Position())
	assert.Equal(t, past, s.History().Past)
	assert.Equal(t, []string{"start a", "move a 100,100", "end a false"}, l.events)

	_, dragging := s.Dragging()
	assert.False(t, dragging)
	assert.False(t, s.CancelDrag())
}

func TestDeletingDraggedNodeCancelsDrag(t *testing.T) {
	tests := []struct {
		name   string
		delete func(s *Session) error
	}{
		{"delete node", func(s *Session) error {
			_, err := s.DeleteNode("a")
			return err
		}},
		{"delete selected", func(s *Session) error {
			_, _ = s.Select("a")
			_, err := s.DeleteSelected()
			return err
		}},
		{"new diagram", func(s *Session) error { return s.NewDiagram() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			_, _ = s.AddNodeAt("a", 0, 0, "")
			l := &recordingListener{}
			s.AddDragListener(l)

			require.NoError(t, s.BeginDrag("a"))
			_, _ = s.DragTo(10, 10)
			past := s.History().Past

			require.NoError(t, tt.delete(s))

			_, dragging := s.Dragging()
			assert.False(t, dragging)
			assert.Equal(t, "end a false", l.events[len(l.events)-1])
			assert.Equal(t, past+1, s.History().Past, "only the delete is recorded")
			assert.Equal(t, "", s.View().Dragging)
		})
	}
}

func TestStructuralActionCommitsDrag(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	l := &recordingListener{}
	s.AddDragListener(l)
	past := s.History().Past

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.DragTo(20, 20)
	_, err := s.AddNodeAt("b", 0, 0, "")
	require.NoError(t, err)

	assert.Equal(t, past+2, s.History().Past, "move then add")
	assert.Equal(t, "end a true", l.events[len(l.events)-1])

	ok, _ := s.Undo()
	require.True(t, ok)
	n, _ := s.View().Node("a")
	assert.Equal(t, diagram.Point{X: 20, Y: 20}, n.Position(), "undo removes the add, keeps the move")
}

func TestUndoDuringDragCancels(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	_, _ = s.AddNodeAt("b", 0, 0, "")

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.DragTo(99, 99)

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	_, dragging := s.Dragging()
	assert.False(t, dragging)

	n, _ := s.View().Node("a")
	assert.Equal(t, diagram.Point{}, n.Position())
	_, hasB := s.View().Node("b")
	assert.False(t, hasB)
}

func TestBeginDragWhileDraggingCommitsPrevious(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	_, _ = s.AddNodeAt("b", 0, 0, "")
	l := &recordingListener{}
	s.AddDragListener(l)

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.DragTo(5, 5)
	require.NoError(t, s.BeginDrag("b"))

	id, dragging := s.Dragging()
	require.True(t, dragging)
	assert.Equal(t, "b", id)
	assert.Contains(t, l.events, "end a true")
}

func TestListenersAttachPerDrag(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	l := &recordingListener{}
	remove := s.AddDragListener(l)

	require.NoError(t, s.BeginDrag("a"))
	remove()
	_, _ = s.DragTo(1, 1)
	_, _ = s.EndDrag()
	assert.Len(t, l.events, 3, "an active drag keeps its listeners")

	require.NoError(t, s.BeginDrag("a"))
	_, _ = s.EndDrag()
	assert.Len(t, l.events, 3, "removed listeners miss later drags")
}

func TestDragErrors(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")

	requireCode(t, s.BeginDrag("ghost"), mmerrors.ErrCodeUnknownNode)

	_, err := s.DragTo(1, 1)
	requireCode(t, err, mmerrors.ErrCodeInvalidInput)

	committed, err := s.EndDrag()
	assert.NoError(t, err)
	assert.False(t, committed)
}

func TestMoveNode(t *testing.T) {
	s := newSession(t)
	_, _ = s.AddNodeAt("a", 0, 0, "")
	before := s.History().Past

	p, err := s.MoveNode("a", 120, 9000)
	require.NoError(t, err)
	assert.Equal(t, diagram.Point{X: 120, Y: 560}, p, "clamped like a drag")
	assert.Equal(t, before+1, s.History().Past)
	_, dragging := s.Dragging()
	assert.False(t, dragging)

	_, err = s.MoveNode("a", 120, 560)
	require.NoError(t, err)
	assert.Equal(t, before+1, s.History().Past, "moving to the same spot records nothing")

	_, err = s.MoveNode("ghost", 1, 1)
	requireCode(t, err, mmerrors.ErrCodeUnknownNode)
	_, err = s.MoveNode("a", math.NaN(), 1)
	requireCode(t, err, mmerrors.ErrCodeInvalidInput)
}
