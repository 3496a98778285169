package diagram_test

import (
	"fmt"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
)

func ExampleGraph_RemoveNode() {
	// Deleting a node takes its lines with it
	g := diagram.New()
	_, _ = g.AddNode("root", 0, 0, "Root")
	_, _ = g.AddNode("left", 0, 100, "Left")
	_, _ = g.AddNode("right", 200, 100, "Right")
	_, _ = g.AddEdge("root", "left")
	_, _ = g.AddEdge("root", "right")
	_, _ = g.AddEdge("left", "right")

	removed, _ := g.RemoveNode("root")
	fmt.Println("Removed edges:", len(removed))
	fmt.Println("Remaining edges:", g.EdgeCount())
	// Output:
	// Removed edges: 2
	// Remaining edges: 1
}

func ExampleGraph_ToggleSelect() {
	// A third selection evicts the oldest one
	g := diagram.New()
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, 0, 0, id)
		_, _ = g.ToggleSelect(id)
	}
	fmt.Println("Selected:", g.Selected())
	// Output:
	// Selected: [b c]
}
