package field

import (
	"math"
)

// Contour represents a closed contour of edges.
// A glyph typically consists of one or more contours.
type Contour struct {
	// Edges is the list of edges that form this contour.
	Edges []Edge
}

// AddEdge appends an edge to the contour.
func (c *Contour) AddEdge(e Edge) {
	c.Edges = append(c.Edges, e)
}

// Bounds returns the bounding box of all edges in the contour.
func (c *Contour) Bounds() Rect {
	if len(c.Edges) == 0 {
		return Rect{}
	}

	bounds := c.Edges[0].Bounds()
	for i := 1; i < len(c.Edges); i++ {
		bounds = bounds.Union(c.Edges[i].Bounds())
	}
	return bounds
}

// polyline returns a closed polyline approximation of the contour.
// The first point is repeated at the end.
func (c *Contour) polyline() []Point {
	if len(c.Edges) == 0 {
		return nil
	}
	pts := make([]Point, 0, len(c.Edges)*4+1)
	pts = append(pts, c.Edges[0].StartPoint())
	for i := range c.Edges {
		pts = c.Edges[i].flatten(pts)
	}
	return pts
}

// SignedArea returns the area enclosed by the contour.
// Positive = counter-clockwise, negative = clockwise.
func (c *Contour) SignedArea() float64 {
	return polylineArea(c.polyline())
}

// Winding returns +1 for a counter-clockwise contour, -1 for clockwise
// and 0 for a contour without area.
func (c *Contour) Winding() int {
	area := c.SignedArea()
	switch {
	case area > 0:
		return 1
	case area < 0:
		return -1
	default:
		return 0
	}
}

// Reverse flips the traversal direction of the contour in place.
func (c *Contour) Reverse() {
	n := len(c.Edges)
	reversed := make([]Edge, n)
	for i := range c.Edges {
		reversed[n-1-i] = c.Edges[i].Reverse()
	}
	c.Edges = reversed
}

// polylineArea computes the shoelace area of a closed polyline.
func polylineArea(pts []Point) float64 {
	var area float64
	for i := 0; i+1 < len(pts); i++ {
		area += pts[i].Cross(pts[i+1])
	}
	return area / 2
}

// polylineWinding returns the winding number of the closed polyline around p.
func polylineWinding(pts []Point, p Point) int {
	winding := 0
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		if a.Y <= p.Y {
			if b.Y > p.Y && b.Sub(a).Cross(p.Sub(a)) > 0 {
				winding++
			}
		} else if b.Y <= p.Y && b.Sub(a).Cross(p.Sub(a)) < 0 {
			winding--
		}
	}
	return winding
}

// Shape represents a complete glyph shape consisting of contours.
type Shape struct {
	// Contours are the closed paths that make up the shape.
	Contours []*Contour
}

// NewShape creates an empty shape.
func NewShape() *Shape {
	return &Shape{
		Contours: make([]*Contour, 0),
	}
}

// AddContour appends a contour to the shape.
func (s *Shape) AddContour(c *Contour) {
	s.Contours = append(s.Contours, c)
}

// EdgeCount returns the total number of edges across all contours.
func (s *Shape) EdgeCount() int {
	count := 0
	for _, c := range s.Contours {
		count += len(c.Edges)
	}
	return count
}

// IsEmpty reports whether the shape has no edges.
func (s *Shape) IsEmpty() bool {
	return s.EdgeCount() == 0
}

// Bounds returns the bounding box of the shape.
// An empty shape reports the zero rectangle.
func (s *Shape) Bounds() Rect {
	var bounds Rect
	first := true
	for _, c := range s.Contours {
		if len(c.Edges) == 0 {
			continue
		}
		if first {
			bounds = c.Bounds()
			first = false
			continue
		}
		bounds = bounds.Union(c.Bounds())
	}
	return bounds
}

// Validate checks that every contour is closed.
func (s *Shape) Validate() bool {
	for _, contour := range s.Contours {
		if len(contour.Edges) == 0 {
			continue
		}

		first := contour.Edges[0].StartPoint()
		last := contour.Edges[len(contour.Edges)-1].EndPoint()

		if math.Abs(first.X-last.X) > 1e-9 || math.Abs(first.Y-last.Y) > 1e-9 {
			return false
		}
	}
	return true
}

// Normalize prepares the shape for coloring and distance queries:
// empty contours are dropped, single-edge contours are split in thirds so
// they can carry three colors, and the contours are oriented so that the
// filled area winds counter-clockwise.
func (s *Shape) Normalize() {
	kept := s.Contours[:0]
	for _, c := range s.Contours {
		if len(c.Edges) == 0 {
			continue
		}
		if len(c.Edges) == 1 {
			parts := c.Edges[0].SplitInThirds()
			c.Edges = parts[:]
		}
		kept = append(kept, c)
	}
	s.Contours = kept

	var total float64
	for _, c := range s.Contours {
		total += c.SignedArea()
	}
	if total < 0 {
		for _, c := range s.Contours {
			c.Reverse()
		}
	}
}

// Winding returns the nonzero winding number of the shape around p.
func (s *Shape) Winding(p Point) int {
	w := 0
	for _, c := range s.Contours {
		w += polylineWinding(c.polyline(), p)
	}
	return w
}

// Builder accumulates path commands into a Shape.
// Degenerate zero-length lines are skipped and open contours are closed
// with a straight edge.
type Builder struct {
	shape   *Shape
	current *Contour
	start   Point
	pos     Point
}

// NewBuilder creates a builder for an empty shape.
func NewBuilder() *Builder {
	return &Builder{shape: NewShape()}
}

// MoveTo starts a new contour at p.
func (b *Builder) MoveTo(p Point) {
	b.closeContour()
	b.current = &Contour{}
	b.start = p
	b.pos = p
}

// LineTo adds a straight edge to p.
func (b *Builder) LineTo(p Point) {
	b.ensureContour()
	if p.Sub(b.pos).LengthSquared() > 1e-24 {
		b.current.AddEdge(NewLinearEdge(b.pos, p))
	}
	b.pos = p
}

// QuadTo adds a quadratic edge through control c to p.
func (b *Builder) QuadTo(c, p Point) {
	b.ensureContour()
	if p == b.pos && c == b.pos {
		return
	}
	b.current.AddEdge(NewQuadraticEdge(b.pos, c, p))
	b.pos = p
}

// CubicTo adds a cubic edge through controls c1, c2 to p.
func (b *Builder) CubicTo(c1, c2, p Point) {
	b.ensureContour()
	if p == b.pos && c1 == b.pos && c2 == b.pos {
		return
	}
	b.current.AddEdge(NewCubicEdge(b.pos, c1, c2, p))
	b.pos = p
}

// Shape closes any open contour and returns the built shape.
func (b *Builder) Shape() *Shape {
	b.closeContour()
	return b.shape
}

func (b *Builder) ensureContour() {
	if b.current == nil {
		b.current = &Contour{}
		b.start = b.pos
	}
}

func (b *Builder) closeContour() {
	if b.current == nil {
		return
	}
	if len(b.current.Edges) > 0 {
		if b.pos.Sub(b.start).LengthSquared() > 1e-24 {
			b.current.AddEdge(NewLinearEdge(b.pos, b.start))
		}
		b.shape.AddContour(b.current)
	}
	b.current = nil
	b.pos = b.start
}
