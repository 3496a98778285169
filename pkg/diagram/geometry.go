package diagram

import "math"

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// Size is a width and height in pixels.
type Size struct {
	W, H float64
}

// Segment is the derived line drawn for an edge.
type Segment struct {
	From, To Point
}

// Center returns the centre of a box of the given size whose top-left
// corner is p.
func Center(p Point, size Size) Point {
	return Point{X: p.X + size.W/2, Y: p.Y + size.H/2}
}

// Clamp bounds p so that a box of size node stays inside canvas. When the
// canvas is smaller than the node the lower bound (0) wins.
func Clamp(p Point, canvas, node Size) Point {
	return Point{
		X: clamp(p.X, 0, canvas.W-node.W),
		Y: clamp(p.Y, 0, canvas.H-node.H),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Segment returns the line joining the centres of e's endpoints, computed
// from their current positions. ok is false when an endpoint is missing.
func (g *Graph) Segment(e Edge, size Size) (seg Segment, ok bool) {
	from, ok1 := g.nodes[e.From]
	to, ok2 := g.nodes[e.To]
	if !ok1 || !ok2 {
		return Segment{}, false
	}
	return Segment{
		From: Center(from.Position(), size),
		To:   Center(to.Position(), size),
	}, true
}
