package field

import (
	"math"
	"math/rand/v2"
)

// colorSeed is the deterministic color switching state.
// Every decision consumes bits of the seed, so the same seed and shape
// always produce the same coloring.
type colorSeed struct {
	bits uint64
}

// initColor picks the first color of a coloring pass.
func (s *colorSeed) initColor() EdgeColor {
	colors := [3]EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	c := colors[s.bits%3]
	s.bits /= 3
	return c
}

// switchColor rotates a two-channel color to a different two-channel color.
func (s *colorSeed) switchColor(c EdgeColor) EdgeColor {
	shifted := uint(c) << (1 + (s.bits & 1))
	s.bits >>= 1
	return EdgeColor((shifted | shifted>>3) & uint(ColorWhite))
}

// switchColorAvoiding rotates c while avoiding a clash with banned.
func (s *colorSeed) switchColorAvoiding(c, banned EdgeColor) EdgeColor {
	combined := c & banned
	if combined == ColorRed || combined == ColorGreen || combined == ColorBlue {
		return combined ^ ColorWhite
	}
	return s.switchColor(c)
}

// isCorner reports whether the direction change from a to b (both
// normalized) is sharp enough to be treated as a corner.
func isCorner(a, b Point, crossThreshold float64) bool {
	return a.Dot(b) <= 0 || math.Abs(a.Cross(b)) > crossThreshold
}

// findCorners returns indices of edges that start at a corner.
func findCorners(c *Contour, crossThreshold float64) []int {
	var corners []int
	if len(c.Edges) == 0 {
		return corners
	}
	prev := c.Edges[len(c.Edges)-1].DirectionAt(1)
	for i := range c.Edges {
		if isCorner(prev.Normalized(), c.Edges[i].DirectionAt(0).Normalized(), crossThreshold) {
			corners = append(corners, i)
		}
		prev = c.Edges[i].DirectionAt(1)
	}
	return corners
}

// symmetricalTrichotomy maps position in [0, n) onto -1, 0, 1 symmetrically.
func symmetricalTrichotomy(position, n int) int {
	return int(3+2.875*float64(position)/float64(n-1)-1.4375+0.5) - 3
}

// colorTeardrop colors a contour with exactly one corner. Contours with
// fewer than three edges are split so that three colors can be placed.
func colorTeardrop(c *Contour, corner int, color EdgeColor, seed *colorSeed) EdgeColor {
	var colors [3]EdgeColor
	color = seed.switchColor(color)
	colors[0] = color
	colors[1] = ColorWhite
	color = seed.switchColor(color)
	colors[2] = color

	m := len(c.Edges)
	if m >= 3 {
		for i := 0; i < m; i++ {
			c.Edges[(corner+i)%m].Color = colors[1+symmetricalTrichotomy(i, m)]
		}
		return color
	}

	var parts [7]*Edge
	first := c.Edges[0].SplitInThirds()
	parts[0+3*corner] = &first[0]
	parts[1+3*corner] = &first[1]
	parts[2+3*corner] = &first[2]
	if m >= 2 {
		second := c.Edges[1].SplitInThirds()
		parts[3-3*corner] = &second[0]
		parts[4-3*corner] = &second[1]
		parts[5-3*corner] = &second[2]
		parts[0].Color, parts[1].Color = colors[0], colors[0]
		parts[2].Color, parts[3].Color = colors[1], colors[1]
		parts[4].Color, parts[5].Color = colors[2], colors[2]
	} else {
		parts[0].Color = colors[0]
		parts[1].Color = colors[1]
		parts[2].Color = colors[2]
	}

	edges := make([]Edge, 0, 6)
	for _, p := range parts {
		if p != nil {
			edges = append(edges, *p)
		}
	}
	c.Edges = edges
	return color
}

// ColorSimple assigns edge colors by splitting every contour at corners
// sharper than angleThreshold and cycling through two-channel colors.
func ColorSimple(s *Shape, angleThreshold float64, seed uint64) {
	crossThreshold := math.Sin(angleThreshold)
	cs := &colorSeed{bits: seed}
	color := cs.initColor()

	for _, c := range s.Contours {
		if len(c.Edges) == 0 {
			continue
		}
		corners := findCorners(c, crossThreshold)

		switch len(corners) {
		case 0:
			color = cs.switchColor(color)
			for i := range c.Edges {
				c.Edges[i].Color = color
			}
		case 1:
			color = colorTeardrop(c, corners[0], color, cs)
		default:
			cornerCount := len(corners)
			spline := 0
			start := corners[0]
			m := len(c.Edges)
			color = cs.switchColor(color)
			initial := color
			for i := 0; i < m; i++ {
				index := (start + i) % m
				if spline+1 < cornerCount && corners[spline+1] == index {
					spline++
					banned := ColorBlack
					if spline == cornerCount-1 {
						banned = initial
					}
					color = cs.switchColorAvoiding(color, banned)
				}
				c.Edges[index].Color = color
			}
		}
	}
}

// inkTrapCorner tracks a corner and the length of the spline leading to it.
type inkTrapCorner struct {
	index      int
	prevLength float64
	minor      bool
	color      EdgeColor
}

// ColorInkTrap assigns edge colors like ColorSimple, but treats short
// splines squeezed between two longer ones (ink traps) as minor corners
// that borrow their neighbors' channels instead of consuming a color switch.
func ColorInkTrap(s *Shape, angleThreshold float64, seed uint64) {
	crossThreshold := math.Sin(angleThreshold)
	cs := &colorSeed{bits: seed}
	color := cs.initColor()

	var corners []inkTrapCorner
	for _, c := range s.Contours {
		if len(c.Edges) == 0 {
			continue
		}

		splineLength := 0.0
		corners = corners[:0]
		prev := c.Edges[len(c.Edges)-1].DirectionAt(1)
		for i := range c.Edges {
			if isCorner(prev.Normalized(), c.Edges[i].DirectionAt(0).Normalized(), crossThreshold) {
				corners = append(corners, inkTrapCorner{index: i, prevLength: splineLength})
				splineLength = 0
			}
			splineLength += c.Edges[i].EstimateLength()
			prev = c.Edges[i].DirectionAt(1)
		}

		switch len(corners) {
		case 0:
			color = cs.switchColor(color)
			for i := range c.Edges {
				c.Edges[i].Color = color
			}
			continue
		case 1:
			color = colorTeardrop(c, corners[0].index, color, cs)
			continue
		}

		cornerCount := len(corners)
		majorCornerCount := cornerCount
		if cornerCount > 3 {
			corners[0].prevLength += splineLength
			for i := 0; i < cornerCount; i++ {
				next := corners[(i+1)%cornerCount].prevLength
				if corners[i].prevLength > next && next < corners[(i+2)%cornerCount].prevLength {
					corners[i].minor = true
					majorCornerCount--
				}
			}
		}

		initial := ColorBlack
		for i := range corners {
			if corners[i].minor {
				continue
			}
			majorCornerCount--
			banned := ColorBlack
			if majorCornerCount == 0 {
				banned = initial
			}
			color = cs.switchColorAvoiding(color, banned)
			corners[i].color = color
			if initial == ColorBlack {
				initial = color
			}
		}
		for i := range corners {
			if corners[i].minor {
				next := corners[(i+1)%cornerCount].color
				corners[i].color = (color & next) ^ ColorWhite
			} else {
				color = corners[i].color
			}
		}

		spline := 0
		start := corners[0].index
		color = corners[0].color
		m := len(c.Edges)
		for i := 0; i < m; i++ {
			index := (start + i) % m
			if spline+1 < cornerCount && corners[spline+1].index == index {
				spline++
				color = corners[spline].color
			}
			c.Edges[index].Color = color
		}
	}
}

// spline is a run of edges between two corners.
type spline struct {
	contour    *Contour
	edges      []int
	prev, next int // indices of the neighboring splines on the same contour
}

// ColorByDistance assigns colors spline by spline, choosing for each the
// color that keeps it farthest from already colored splines of the same
// color. Neighboring splines on a contour never share a color. The
// processing order is a seeded permutation, so results are deterministic
// for a given seed.
func ColorByDistance(s *Shape, angleThreshold float64, seed uint64) {
	crossThreshold := math.Sin(angleThreshold)
	cs := &colorSeed{bits: seed}
	color := cs.initColor()

	var splines []spline
	for _, c := range s.Contours {
		if len(c.Edges) == 0 {
			continue
		}
		corners := findCorners(c, crossThreshold)
		switch len(corners) {
		case 0:
			// A smooth contour is a single spline adjacent to itself.
			idx := len(splines)
			edges := make([]int, len(c.Edges))
			for i := range edges {
				edges[i] = i
			}
			splines = append(splines, spline{contour: c, edges: edges, prev: idx, next: idx})
		case 1:
			color = colorTeardrop(c, corners[0], color, cs)
		default:
			first := len(splines)
			m := len(c.Edges)
			for k, start := range corners {
				end := corners[(k+1)%len(corners)]
				if end <= start {
					end += m
				}
				var edges []int
				for j := start; j < end; j++ {
					edges = append(edges, j%m)
				}
				splines = append(splines, spline{contour: c, edges: edges})
			}
			count := len(splines) - first
			for k := 0; k < count; k++ {
				splines[first+k].prev = first + (k+count-1)%count
				splines[first+k].next = first + (k+1)%count
			}
		}
	}
	if len(splines) == 0 {
		return
	}

	n := len(splines)
	distance := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := splineDistance(&splines[i], &splines[j])
			distance[i*n+j] = d
			distance[j*n+i] = d
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	order := rng.Perm(n)

	palette := [3]EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	assigned := make([]EdgeColor, n)
	for _, i := range order {
		best := ColorBlack
		bestScore := -1.0
		offset := rng.IntN(3)
		for k := 0; k < 3; k++ {
			candidate := palette[(k+offset)%3]
			if i != splines[i].prev && assigned[splines[i].prev] == candidate {
				continue
			}
			if i != splines[i].next && assigned[splines[i].next] == candidate {
				continue
			}
			score := math.MaxFloat64
			for j := 0; j < n; j++ {
				if j != i && assigned[j] == candidate {
					score = min(score, distance[i*n+j])
				}
			}
			if score > bestScore {
				best = candidate
				bestScore = score
			}
		}
		assigned[i] = best
	}

	for i := range splines {
		for _, e := range splines[i].edges {
			splines[i].contour.Edges[e].Color = assigned[i]
		}
	}
}

// splineDistance estimates the smallest distance between two splines by
// sampling each edge of one against the edges of the other.
func splineDistance(a, b *spline) float64 {
	best := math.MaxFloat64
	for _, i := range a.edges {
		for _, j := range b.edges {
			best = min(best, edgeToEdgeDistance(&a.contour.Edges[i], &b.contour.Edges[j]))
		}
	}
	return best
}

// edgeToEdgeDistance samples both edges at five points and returns the
// smallest point-to-edge distance found in either direction.
func edgeToEdgeDistance(a, b *Edge) float64 {
	const precision = 4
	best := math.MaxFloat64
	for i := 0; i <= precision; i++ {
		t := float64(i) / precision
		da, _ := b.SignedDistance(a.PointAt(t))
		db, _ := a.SignedDistance(b.PointAt(t))
		best = min(best, math.Abs(da.Distance), math.Abs(db.Distance))
	}
	return best
}
