package diagram

import (
	"errors"
	"slices"
	"testing"
)

func buildGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := New()
	for i, id := range ids {
		if _, err := g.AddNode(id, float64(i*10), float64(i*10), id); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	return g
}

func mustEdge(t *testing.T, g *Graph, a, b string) {
	t.Helper()
	if _, err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge(%q, %q): %v", a, b, err)
	}
}

func TestAddNode(t *testing.T) {
	g := New()

	n, err := g.AddNode("n1", 10, 20, "A")
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.ID != "n1" || n.X != 10 || n.Y != 20 || n.Text != "A" || n.Selected {
		t.Errorf("AddNode returned %+v", n)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"duplicate", "n1", ErrDuplicateID},
		{"empty", "", ErrInvalidNodeID},
		{"malformed utf8", "n\xff", ErrInvalidNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.AddNode(tt.id, 0, 0, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
			if g.NodeCount() != 1 {
				t.Errorf("NodeCount = %d after failed add, want 1", g.NodeCount())
			}
		})
	}
}

func TestNodesKeepInsertionOrder(t *testing.T) {
	g := buildGraph(t, "c", "a", "b")
	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	if want := []string{"c", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Nodes order = %v, want %v", got, want)
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name     string
		parallel bool
		a, b     string
		wantErr  error
	}{
		{"valid", true, "a", "b", nil},
		{"unknown source", true, "x", "b", ErrUnknownNode},
		{"unknown target", true, "a", "x", ErrUnknownNode},
		{"self loop", true, "a", "a", ErrInvalidSelection},
		{"parallel allowed", true, "b", "c", nil},
		{"parallel rejected", false, "b", "c", ErrParallelEdge},
		{"reverse parallel rejected", false, "c", "b", ErrParallelEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(WithParallelEdges(tt.parallel))
			for _, id := range []string{"a", "b", "c"} {
				_, _ = g.AddNode(id, 0, 0, "")
			}
			_, _ = g.AddEdge("b", "c")
			before := g.EdgeCount()

			_, err := g.AddEdge(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge(%q, %q) error = %v, want %v", tt.a, tt.b, err, tt.wantErr)
			}
			want := before
			if tt.wantErr == nil {
				want++
			}
			if g.EdgeCount() != want {
				t.Errorf("EdgeCount = %d, want %d", g.EdgeCount(), want)
			}
		})
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := buildGraph(t, "a", "b", "c", "d")
	mustEdge(t, g, "a", "b")
	mustEdge(t, g, "c", "a")
	mustEdge(t, g, "b", "c")
	mustEdge(t, g, "c", "d")

	removed, err := g.RemoveNode("a")
	if err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	wantRemoved := []Edge{{"a", "b"}, {"c", "a"}}
	if !slices.Equal(removed, wantRemoved) {
		t.Errorf("removed = %v, want %v", removed, wantRemoved)
	}
	wantKept := []Edge{{"b", "c"}, {"c", "d"}}
	if got := g.Edges(); !slices.Equal(got, wantKept) {
		t.Errorf("edges = %v, want %v", got, wantKept)
	}
	if g.HasNode("a") {
		t.Error("node a still present")
	}
}

func TestRemoveNodeUnknown(t *testing.T) {
	g := buildGraph(t, "a", "b")
	mustEdge(t, g, "a", "b")

	if _, err := g.RemoveNode("zz"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RemoveNode(zz) error = %v, want ErrUnknownNode", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestRemoveNodesIsAtomic(t *testing.T) {
	g := buildGraph(t, "a", "b", "c")
	mustEdge(t, g, "a", "b")

	if _, err := g.RemoveNodes("a", "missing"); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("RemoveNodes error = %v, want ErrUnknownNode", err)
	}
	if !g.HasNode("a") || g.EdgeCount() != 1 {
		t.Error("RemoveNodes partially applied")
	}

	removed, err := g.RemoveNodes("a", "b", "a")
	if err != nil {
		t.Fatalf("RemoveNodes: %v", err)
	}
	if len(removed) != 1 || g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("after RemoveNodes: removed=%v nodes=%d edges=%d", removed, g.NodeCount(), g.EdgeCount())
	}
}

func TestRemoveEdgeIsSymmetric(t *testing.T) {
	g := buildGraph(t, "a", "b")
	mustEdge(t, g, "a", "b")
	mustEdge(t, g, "a", "b")

	if err := g.RemoveEdge("b", "a"); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 (only the first parallel edge goes)", g.EdgeCount())
	}
	_ = g.RemoveEdge("a", "b")
	if err := g.RemoveEdge("a", "b"); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("RemoveEdge on unconnected pair error = %v, want ErrUnknownEdge", err)
	}
}

func TestMoveAndSetText(t *testing.T) {
	g := buildGraph(t, "a")

	if err := g.MoveNode("a", -5, 1e6); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	n, _ := g.Node("a")
	if n.X != -5 || n.Y != 1e6 {
		t.Errorf("MoveNode should not clamp, got (%v, %v)", n.X, n.Y)
	}

	if err := g.SetText("a", ""); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if n, _ := g.Node("a"); n.Text != "" {
		t.Errorf("Text = %q, want empty", n.Text)
	}

	if err := g.MoveNode("zz", 0, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("MoveNode(zz) error = %v", err)
	}
	if err := g.SetText("zz", "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetText(zz) error = %v", err)
	}
	if err := g.SetText("a", "bad\xfe"); !errors.Is(err, ErrInvalidText) {
		t.Errorf("SetText(malformed) error = %v, want ErrInvalidText", err)
	}
	if n, _ := g.Node("a"); n.Text != "" {
		t.Errorf("rejected SetText changed the label to %q", n.Text)
	}
	if _, err := g.AddNode("b", 0, 0, "bad\xfe"); !errors.Is(err, ErrInvalidText) {
		t.Errorf("AddNode(malformed label) error = %v, want ErrInvalidText", err)
	}
	if g.HasNode("b") {
		t.Error("rejected AddNode added the node")
	}
}

func TestToggleSelectEvictsOldest(t *testing.T) {
	g := buildGraph(t, "a", "b", "c")

	for _, id := range []string{"a", "b", "c"} {
		if on, err := g.ToggleSelect(id); err != nil || !on {
			t.Fatalf("ToggleSelect(%q) = %v, %v", id, on, err)
		}
	}

	if got, want := g.Selected(), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Selected = %v, want %v", got, want)
	}
	if n, _ := g.Node("a"); n.Selected {
		t.Error("evicted node a still flagged as selected")
	}

	selected := 0
	for _, n := range g.Nodes() {
		if n.Selected {
			selected++
		}
	}
	if selected != 2 {
		t.Errorf("selected flags = %d, want 2", selected)
	}
}

func TestToggleSelectDeselects(t *testing.T) {
	g := buildGraph(t, "a", "b", "c")
	_, _ = g.ToggleSelect("a")
	_, _ = g.ToggleSelect("b")

	if on, _ := g.ToggleSelect("a"); on {
		t.Error("second toggle should deselect")
	}
	_, _ = g.ToggleSelect("c")

	if got, want := g.Selected(), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Selected = %v, want %v", got, want)
	}

	g.ClearSelection()
	if len(g.Selected()) != 0 {
		t.Error("ClearSelection left a selection")
	}
	for _, n := range g.Nodes() {
		if n.Selected {
			t.Errorf("node %q still selected", n.ID)
		}
	}

	if _, err := g.ToggleSelect("zz"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("ToggleSelect(zz) error = %v", err)
	}
}

func TestRemoveNodeDropsSelection(t *testing.T) {
	g := buildGraph(t, "a", "b", "c")
	_, _ = g.ToggleSelect("a")
	_, _ = g.ToggleSelect("b")

	_, _ = g.RemoveNode("a")
	_, _ = g.ToggleSelect("c")

	if got, want := g.Selected(), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Selected = %v, want %v", got, want)
	}
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{From: "a", To: "b"}
	if !e.Touches("a") || !e.Touches("b") || e.Touches("c") {
		t.Error("Touches mismatch")
	}
	if !e.Connects("b", "a") || e.Connects("a", "c") {
		t.Error("Connects mismatch")
	}
	if e.Other("a") != "b" || e.Other("b") != "a" || e.Other("c") != "" {
		t.Error("Other mismatch")
	}
}

func TestEdgesOf(t *testing.T) {
	g := buildGraph(t, "a", "b", "c")
	mustEdge(t, g, "a", "b")
	mustEdge(t, g, "c", "a")
	mustEdge(t, g, "b", "c")

	if got, want := g.EdgesOf("a"), []Edge{{"a", "b"}, {"c", "a"}}; !slices.Equal(got, want) {
		t.Errorf("EdgesOf(a) = %v, want %v", got, want)
	}
}
