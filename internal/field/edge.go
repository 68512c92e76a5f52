package field

import (
	"math"
)

// EdgeType classifies edge segments by their geometric type.
type EdgeType int

const (
	// EdgeLinear is a straight line segment between two points.
	EdgeLinear EdgeType = iota

	// EdgeQuadratic is a quadratic Bezier curve (one control point).
	EdgeQuadratic

	// EdgeCubic is a cubic Bezier curve (two control points).
	EdgeCubic
)

// String returns a string representation of the edge type.
func (t EdgeType) String() string {
	switch t {
	case EdgeLinear:
		return "Linear"
	case EdgeQuadratic:
		return "Quadratic"
	case EdgeCubic:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// EdgeColor determines which channels an edge contributes to.
// The bit layout (red=1, green=2, blue=4) is relied upon by the
// color switching arithmetic in coloring.go.
type EdgeColor uint8

const (
	// ColorBlack means the edge contributes to no channels.
	ColorBlack EdgeColor = 0

	// ColorRed means the edge contributes to the red channel.
	ColorRed EdgeColor = 1

	// ColorGreen means the edge contributes to the green channel.
	ColorGreen EdgeColor = 2

	// ColorYellow combines red and green channels.
	ColorYellow EdgeColor = 3

	// ColorBlue means the edge contributes to the blue channel.
	ColorBlue EdgeColor = 4

	// ColorMagenta combines red and blue channels.
	ColorMagenta EdgeColor = 5

	// ColorCyan combines green and blue channels.
	ColorCyan EdgeColor = 6

	// ColorWhite means the edge contributes to all channels.
	ColorWhite EdgeColor = 7
)

// String returns a string representation of the edge color.
func (c EdgeColor) String() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorRed:
		return "Red"
	case ColorGreen:
		return "Green"
	case ColorBlue:
		return "Blue"
	case ColorYellow:
		return "Yellow"
	case ColorCyan:
		return "Cyan"
	case ColorMagenta:
		return "Magenta"
	case ColorWhite:
		return "White"
	default:
		return "Unknown"
	}
}

// HasRed returns true if the color includes the red channel.
func (c EdgeColor) HasRed() bool { return c&ColorRed != 0 }

// HasGreen returns true if the color includes the green channel.
func (c EdgeColor) HasGreen() bool { return c&ColorGreen != 0 }

// HasBlue returns true if the color includes the blue channel.
func (c EdgeColor) HasBlue() bool { return c&ColorBlue != 0 }

// Edge represents a single edge segment for distance calculation.
type Edge struct {
	// Type is the geometric type of this edge.
	Type EdgeType

	// Points contains the control and end points for this edge.
	// Linear: P0 (start), P1 (end)
	// Quadratic: P0 (start), P1 (control), P2 (end)
	// Cubic: P0 (start), P1 (control1), P2 (control2), P3 (end)
	Points [4]Point

	// Color determines which channels this edge affects.
	Color EdgeColor
}

// NewLinearEdge creates a new linear edge from start to end.
func NewLinearEdge(start, end Point) Edge {
	return Edge{
		Type:   EdgeLinear,
		Points: [4]Point{start, end, {}, {}},
		Color:  ColorWhite,
	}
}

// NewQuadraticEdge creates a new quadratic Bezier edge.
func NewQuadraticEdge(start, control, end Point) Edge {
	return Edge{
		Type:   EdgeQuadratic,
		Points: [4]Point{start, control, end, {}},
		Color:  ColorWhite,
	}
}

// NewCubicEdge creates a new cubic Bezier edge.
func NewCubicEdge(start, control1, control2, end Point) Edge {
	return Edge{
		Type:   EdgeCubic,
		Points: [4]Point{start, control1, control2, end},
		Color:  ColorWhite,
	}
}

// StartPoint returns the starting point of the edge.
func (e *Edge) StartPoint() Point {
	return e.Points[0]
}

// EndPoint returns the ending point of the edge.
func (e *Edge) EndPoint() Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[1]
	case EdgeQuadratic:
		return e.Points[2]
	case EdgeCubic:
		return e.Points[3]
	default:
		return e.Points[0]
	}
}

// PointAt evaluates the edge at parameter t in [0, 1].
func (e *Edge) PointAt(t float64) Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[0].Lerp(e.Points[1], t)
	case EdgeQuadratic:
		return evaluateQuadratic(e.Points[0], e.Points[1], e.Points[2], t)
	case EdgeCubic:
		return evaluateCubic(e.Points[0], e.Points[1], e.Points[2], e.Points[3], t)
	default:
		return e.Points[0]
	}
}

// DirectionAt returns the tangent direction at parameter t.
// Degenerate curve ends (control point on top of the end point)
// fall back to the chord towards the next distinct point.
func (e *Edge) DirectionAt(t float64) Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[1].Sub(e.Points[0])
	case EdgeQuadratic:
		d := quadraticDerivative(e.Points[0], e.Points[1], e.Points[2], t)
		if d.LengthSquared() == 0 {
			return e.Points[2].Sub(e.Points[0])
		}
		return d
	case EdgeCubic:
		d := cubicDerivative(e.Points[0], e.Points[1], e.Points[2], e.Points[3], t)
		if d.LengthSquared() == 0 {
			if t < 0.5 {
				d = e.Points[2].Sub(e.Points[0])
			} else {
				d = e.Points[3].Sub(e.Points[1])
			}
			if d.LengthSquared() == 0 {
				d = e.Points[3].Sub(e.Points[0])
			}
		}
		return d
	default:
		return Point{1, 0}
	}
}

// SignedDistance calculates the signed distance from point p to this edge.
// It also returns the curve parameter of the closest point. The parameter
// lies outside [0, 1] when p projects beyond an endpoint along its tangent,
// which is what PseudoDistance uses to extend the edge.
func (e *Edge) SignedDistance(p Point) (SignedDistance, float64) {
	switch e.Type {
	case EdgeLinear:
		return linearSignedDistance(e.Points[0], e.Points[1], p)
	case EdgeQuadratic:
		return quadraticSignedDistance(e.Points[0], e.Points[1], e.Points[2], p)
	case EdgeCubic:
		return cubicSignedDistance(e.Points[0], e.Points[1], e.Points[2], e.Points[3], p)
	default:
		return Infinite(), 0
	}
}

// PseudoDistance converts a signed distance obtained at param into the
// distance to the edge extended along its end tangents.
func (e *Edge) PseudoDistance(sd SignedDistance, p Point, param float64) SignedDistance {
	switch {
	case param < 0:
		dir := e.DirectionAt(0).Normalized()
		aq := p.Sub(e.StartPoint())
		if aq.Dot(dir) < 0 {
			perp := dir.Cross(aq)
			if math.Abs(perp) <= math.Abs(sd.Distance) {
				return SignedDistance{Distance: perp, Dot: 0}
			}
		}
	case param > 1:
		dir := e.DirectionAt(1).Normalized()
		bq := p.Sub(e.EndPoint())
		if bq.Dot(dir) > 0 {
			perp := dir.Cross(bq)
			if math.Abs(perp) <= math.Abs(sd.Distance) {
				return SignedDistance{Distance: perp, Dot: 0}
			}
		}
	}
	return sd
}

// Bounds returns the bounding box of the edge.
func (e *Edge) Bounds() Rect {
	switch e.Type {
	case EdgeLinear:
		return linearBounds(e.Points[0], e.Points[1])
	case EdgeQuadratic:
		return quadraticBounds(e.Points[0], e.Points[1], e.Points[2])
	case EdgeCubic:
		return cubicBounds(e.Points[0], e.Points[1], e.Points[2], e.Points[3])
	default:
		return Rect{}
	}
}

// Reverse returns the edge traversed in the opposite direction.
func (e *Edge) Reverse() Edge {
	r := *e
	switch e.Type {
	case EdgeLinear:
		r.Points[0], r.Points[1] = e.Points[1], e.Points[0]
	case EdgeQuadratic:
		r.Points[0], r.Points[2] = e.Points[2], e.Points[0]
	case EdgeCubic:
		r.Points[0], r.Points[1], r.Points[2], r.Points[3] = e.Points[3], e.Points[2], e.Points[1], e.Points[0]
	}
	return r
}

// SplitAt divides the edge at parameter t using de Casteljau subdivision.
// Both halves keep the color of e.
func (e *Edge) SplitAt(t float64) (Edge, Edge) {
	p := e.Points
	switch e.Type {
	case EdgeQuadratic:
		a := p[0].Lerp(p[1], t)
		b := p[1].Lerp(p[2], t)
		m := a.Lerp(b, t)
		first, second := NewQuadraticEdge(p[0], a, m), NewQuadraticEdge(m, b, p[2])
		first.Color, second.Color = e.Color, e.Color
		return first, second
	case EdgeCubic:
		a := p[0].Lerp(p[1], t)
		b := p[1].Lerp(p[2], t)
		c := p[2].Lerp(p[3], t)
		ab := a.Lerp(b, t)
		bc := b.Lerp(c, t)
		m := ab.Lerp(bc, t)
		first, second := NewCubicEdge(p[0], a, ab, m), NewCubicEdge(m, bc, c, p[3])
		first.Color, second.Color = e.Color, e.Color
		return first, second
	default:
		m := p[0].Lerp(p[1], t)
		first, second := NewLinearEdge(p[0], m), NewLinearEdge(m, p[1])
		first.Color, second.Color = e.Color, e.Color
		return first, second
	}
}

// SplitInThirds divides the edge into three parts of equal parameter length.
func (e *Edge) SplitInThirds() [3]Edge {
	first, rest := e.SplitAt(1.0 / 3.0)
	second, third := rest.SplitAt(0.5)
	return [3]Edge{first, second, third}
}

// EstimateLength approximates the arc length with a four-piece polyline.
func (e *Edge) EstimateLength() float64 {
	const precision = 4
	var length float64
	prev := e.PointAt(0)
	for i := 1; i <= precision; i++ {
		cur := e.PointAt(float64(i) / precision)
		length += cur.Sub(prev).Length()
		prev = cur
	}
	return length
}

// flatten appends a polyline approximation of the edge, excluding the
// start point, to dst.
func (e *Edge) flatten(dst []Point) []Point {
	steps := 1
	switch e.Type {
	case EdgeQuadratic:
		steps = 8
	case EdgeCubic:
		steps = 12
	}
	for i := 1; i <= steps; i++ {
		dst = append(dst, e.PointAt(float64(i)/float64(steps)))
	}
	return dst
}

// evaluateQuadratic evaluates a quadratic Bezier curve at parameter t.
func evaluateQuadratic(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	// B(t) = (1-t)^2*P0 + 2*(1-t)*t*P1 + t^2*P2
	return Point{
		u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// evaluateCubic evaluates a cubic Bezier curve at parameter t.
func evaluateCubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	u2 := u * u
	t2 := t * t
	// B(t) = (1-t)^3*P0 + 3*(1-t)^2*t*P1 + 3*(1-t)*t^2*P2 + t^3*P3
	return Point{
		u*u2*p0.X + 3*u2*t*p1.X + 3*u*t2*p2.X + t*t2*p3.X,
		u*u2*p0.Y + 3*u2*t*p1.Y + 3*u*t2*p2.Y + t*t2*p3.Y,
	}
}

// quadraticDerivative returns the derivative of a quadratic Bezier at t.
func quadraticDerivative(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	// B'(t) = 2*(1-t)*(P1-P0) + 2*t*(P2-P1)
	return Point{
		2*u*(p1.X-p0.X) + 2*t*(p2.X-p1.X),
		2*u*(p1.Y-p0.Y) + 2*t*(p2.Y-p1.Y),
	}
}

// cubicDerivative returns the derivative of a cubic Bezier at t.
func cubicDerivative(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	// B'(t) = 3*(1-t)^2*(P1-P0) + 6*(1-t)*t*(P2-P1) + 3*t^2*(P3-P2)
	return Point{
		3*u*u*(p1.X-p0.X) + 6*u*t*(p2.X-p1.X) + 3*t*t*(p3.X-p2.X),
		3*u*u*(p1.Y-p0.Y) + 6*u*t*(p2.Y-p1.Y) + 3*t*t*(p3.Y-p2.Y),
	}
}

// cubicSecondDerivative returns the second derivative of a cubic Bezier at t.
func cubicSecondDerivative(p0, p1, p2, p3 Point, t float64) Point {
	// B''(t) = 6*(1-t)*(P2-2*P1+P0) + 6*t*(P3-2*P2+P1)
	a := p2.Sub(p1.Mul(2)).Add(p0)
	b := p3.Sub(p2.Mul(2)).Add(p1)
	u := 1 - t
	return a.Mul(6 * u).Add(b.Mul(6 * t))
}

// endpointParam extends the parameter beyond [0, 1] when p lies past an
// endpoint along the tangent there.
func endpointParam(t float64, p, end, tangent Point) float64 {
	lenSq := tangent.LengthSquared()
	if lenSq == 0 {
		return t
	}
	proj := p.Sub(end).Dot(tangent) / lenSq
	if t == 0 && proj < 0 {
		return proj
	}
	if t == 1 && proj > 0 {
		return 1 + proj
	}
	return t
}

// linearSignedDistance calculates signed distance from point p to line segment a-b.
func linearSignedDistance(a, b, p Point) (SignedDistance, float64) {
	ab := b.Sub(a)
	ap := p.Sub(a)

	abLenSq := ab.LengthSquared()
	if abLenSq == 0 {
		return SignedDistance{Distance: ap.Length()}, 0
	}

	param := ap.Dot(ab) / abLenSq

	t := param
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := a.Add(ab.Mul(t))
	diff := p.Sub(closest)
	dist := diff.Length()

	if ab.Cross(ap) < 0 {
		dist = -dist
	}

	var dot float64
	if t == 0 || t == 1 {
		dot = math.Abs(ab.Normalized().Dot(diff.Normalized()))
	}

	return SignedDistance{Distance: dist, Dot: dot}, param
}

// quadraticSignedDistance calculates signed distance from point p to quadratic Bezier.
func quadraticSignedDistance(p0, p1, p2, p Point) (SignedDistance, float64) {
	// Transform so p is at origin
	qa := p0.Sub(p)
	qb := p1.Sub(p)
	qc := p2.Sub(p)

	// Coefficients of the Bezier curve: B(t) = a*t^2 + b*t + c
	a := qa.Sub(qb.Mul(2)).Add(qc)
	b := qb.Sub(qa).Mul(2)
	c := qa

	// d(dist^2)/dt = 0 is a cubic in t.
	c3 := 2 * a.Dot(a)
	c2 := 3 * a.Dot(b)
	c1 := 2*a.Dot(c) + b.Dot(b)
	c0 := b.Dot(c)

	roots := solveCubic(c3, c2, c1, c0)

	minDist := Infinite()
	bestT := 0.0

	check := func(t float64) {
		if t < 0 || t > 1 {
			return
		}
		pt := evaluateQuadratic(p0, p1, p2, t)
		diff := p.Sub(pt)
		dist := diff.Length()

		tangent := quadraticDerivative(p0, p1, p2, t)
		if tangent.LengthSquared() == 0 {
			tangent = p2.Sub(p0)
		}
		if tangent.Cross(diff) < 0 {
			dist = -dist
		}

		var dot float64
		if t == 0 || t == 1 {
			dot = math.Abs(tangent.Normalized().Dot(diff.Normalized()))
		}

		sd := SignedDistance{Distance: dist, Dot: dot}
		if sd.IsCloserThan(minDist) {
			minDist = sd
			bestT = t
		}
	}

	check(0)
	check(1)
	for _, t := range roots {
		check(t)
	}

	switch bestT {
	case 0:
		bestT = endpointParam(0, p, p0, quadraticDerivative(p0, p1, p2, 0))
	case 1:
		bestT = endpointParam(1, p, p2, quadraticDerivative(p0, p1, p2, 1))
	}
	return minDist, bestT
}

// cubicSignedDistance calculates signed distance from point p to cubic Bezier.
func cubicSignedDistance(p0, p1, p2, p3, p Point) (SignedDistance, float64) {
	// The distance derivative is a quintic polynomial; use Newton's method
	// from several starting points.
	minDist := Infinite()
	bestT := 0.0

	check := func(t float64) {
		if t < 0 || t > 1 {
			return
		}
		pt := evaluateCubic(p0, p1, p2, p3, t)
		diff := p.Sub(pt)
		dist := diff.Length()

		tangent := cubicDerivative(p0, p1, p2, p3, t)
		if tangent.LengthSquared() == 0 {
			tangent = p3.Sub(p0)
		}
		if tangent.Cross(diff) < 0 {
			dist = -dist
		}

		var dot float64
		if t == 0 || t == 1 {
			dot = math.Abs(tangent.Normalized().Dot(diff.Normalized()))
		}

		sd := SignedDistance{Distance: dist, Dot: dot}
		if sd.IsCloserThan(minDist) {
			minDist = sd
			bestT = t
		}
	}

	check(0)
	check(1)

	const numSamples = 8
	for i := 0; i <= numSamples; i++ {
		t := float64(i) / float64(numSamples)
		t = newtonRefineCubic(p0, p1, p2, p3, p, t)
		check(t)
	}

	switch bestT {
	case 0:
		bestT = endpointParam(0, p, p0, cubicDerivative(p0, p1, p2, p3, 0))
	case 1:
		bestT = endpointParam(1, p, p3, cubicDerivative(p0, p1, p2, p3, 1))
	}
	return minDist, bestT
}

// newtonRefineCubic refines a parameter t using Newton's method.
func newtonRefineCubic(p0, p1, p2, p3, p Point, t float64) float64 {
	const maxIter = 8
	const epsilon = 1e-10

	for i := 0; i < maxIter; i++ {
		pt := evaluateCubic(p0, p1, p2, p3, t)
		diff := pt.Sub(p)

		d1 := cubicDerivative(p0, p1, p2, p3, t)
		d2 := cubicSecondDerivative(p0, p1, p2, p3, t)

		f := diff.Dot(d1)
		fp := d1.Dot(d1) + diff.Dot(d2)

		if math.Abs(fp) < epsilon {
			break
		}

		dt := -f / fp
		if math.Abs(dt) < epsilon {
			break
		}

		t += dt
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	return t
}

// solveCubic solves a*x^3 + b*x^2 + c*x + d = 0.
// Returns real roots in [0, 1].
func solveCubic(a, b, c, d float64) []float64 {
	if math.Abs(a) < 1e-14 {
		return solveQuadratic(b, c, d)
	}

	b /= a
	c /= a
	d /= a

	// Cardano's method: depress the cubic
	p := c - b*b/3
	q := d - b*c/3 + 2*b*b*b/27
	discriminant := q*q/4 + p*p*p/27

	var roots []float64
	keep := func(root float64) {
		if root >= 0 && root <= 1 {
			roots = append(roots, root)
		}
	}

	switch {
	case discriminant > 1e-14:
		sqrtD := math.Sqrt(discriminant)
		keep(math.Cbrt(-q/2+sqrtD) + math.Cbrt(-q/2-sqrtD) - b/3)
	case discriminant < -1e-14:
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(max(-1, min(1, -q/(2*r))))
		cubeRootR := math.Cbrt(r)
		for k := 0; k < 3; k++ {
			keep(2*cubeRootR*math.Cos((phi+float64(2*k)*math.Pi)/3) - b/3)
		}
	default:
		u := math.Cbrt(-q / 2)
		root1 := 2*u - b/3
		root2 := -u - b/3
		keep(root1)
		if math.Abs(root1-root2) > 1e-10 {
			keep(root2)
		}
	}

	return roots
}

// solveQuadratic solves a*x^2 + b*x + c = 0.
// Returns real roots in [0, 1].
func solveQuadratic(a, b, c float64) []float64 {
	var roots []float64
	if math.Abs(a) < 1e-14 {
		if math.Abs(b) >= 1e-14 {
			if root := -c / b; root >= 0 && root <= 1 {
				roots = append(roots, root)
			}
		}
		return roots
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return roots
	}

	sqrtD := math.Sqrt(discriminant)
	root1 := (-b + sqrtD) / (2 * a)
	root2 := (-b - sqrtD) / (2 * a)

	if root1 >= 0 && root1 <= 1 {
		roots = append(roots, root1)
	}
	if root2 >= 0 && root2 <= 1 && math.Abs(root1-root2) > 1e-10 {
		roots = append(roots, root2)
	}
	return roots
}

// linearBounds returns the bounding box of a line segment.
func linearBounds(a, b Point) Rect {
	return Rect{
		MinX: min(a.X, b.X),
		MinY: min(a.Y, b.Y),
		MaxX: max(a.X, b.X),
		MaxY: max(a.Y, b.Y),
	}
}

// quadraticBounds returns the bounding box of a quadratic Bezier.
func quadraticBounds(p0, p1, p2 Point) Rect {
	bounds := linearBounds(p0, p2)

	// B'(t) = 0 at t = (p0-p1)/(p0-2*p1+p2)
	dx := p0.X - 2*p1.X + p2.X
	if math.Abs(dx) > 1e-10 {
		t := (p0.X - p1.X) / dx
		if t > 0 && t < 1 {
			x := evaluateQuadratic(p0, p1, p2, t).X
			bounds.MinX = min(bounds.MinX, x)
			bounds.MaxX = max(bounds.MaxX, x)
		}
	}

	dy := p0.Y - 2*p1.Y + p2.Y
	if math.Abs(dy) > 1e-10 {
		t := (p0.Y - p1.Y) / dy
		if t > 0 && t < 1 {
			y := evaluateQuadratic(p0, p1, p2, t).Y
			bounds.MinY = min(bounds.MinY, y)
			bounds.MaxY = max(bounds.MaxY, y)
		}
	}

	return bounds
}

// cubicBounds returns the bounding box of a cubic Bezier.
func cubicBounds(p0, p1, p2, p3 Point) Rect {
	bounds := linearBounds(p0, p3)

	ax := -p0.X + 3*p1.X - 3*p2.X + p3.X
	bx := 2*p0.X - 4*p1.X + 2*p2.X
	cx := -p0.X + p1.X

	for _, t := range solveQuadratic(ax, bx, cx) {
		if t > 0 && t < 1 {
			x := evaluateCubic(p0, p1, p2, p3, t).X
			bounds.MinX = min(bounds.MinX, x)
			bounds.MaxX = max(bounds.MaxX, x)
		}
	}

	ay := -p0.Y + 3*p1.Y - 3*p2.Y + p3.Y
	by := 2*p0.Y - 4*p1.Y + 2*p2.Y
	cy := -p0.Y + p1.Y

	for _, t := range solveQuadratic(ay, by, cy) {
		if t > 0 && t < 1 {
			y := evaluateCubic(p0, p1, p2, p3, t).Y
			bounds.MinY = min(bounds.MinY, y)
			bounds.MaxY = max(bounds.MaxY, y)
		}
	}

	return bounds
}
