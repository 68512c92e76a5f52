package field

import (
	"math"
	"sync"
)

// Mode selects the kind of distance field produced by Rasterize.
type Mode int

const (
	// ModeSDF produces the true signed distance in one channel.
	ModeSDF Mode = iota

	// ModePSDF produces the pseudo-distance in one channel.
	ModePSDF

	// ModeMSDF produces per-color pseudo-distances in three channels.
	ModeMSDF

	// ModeMTSDF produces MSDF channels plus the true distance in alpha.
	ModeMTSDF
)

// Channels returns the number of float channels per pixel.
func (m Mode) Channels() int {
	switch m {
	case ModeMSDF:
		return 3
	case ModeMTSDF:
		return 4
	default:
		return 1
	}
}

// ErrorCorrection selects the artifact correction pass for multi-channel fields.
type ErrorCorrection int

const (
	// CorrectionDisabled leaves the field untouched.
	CorrectionDisabled ErrorCorrection = iota

	// CorrectionIndiscriminate equalizes every clashing pixel.
	CorrectionIndiscriminate

	// CorrectionEdgePriority equalizes clashing pixels away from edges.
	CorrectionEdgePriority

	// CorrectionEdgeOnly equalizes clashing pixels on edges only.
	CorrectionEdgeOnly
)

// Raster describes the output grid and the mapping from pixels to shape
// coordinates. A pixel (x, y) samples the shape at
// ((x+0.5)/Scale - TX, (y+0.5)/Scale - TY); row 0 is the bottom row.
type Raster struct {
	Mode            Mode
	Width, Height   int
	RangeEm         float64
	Scale           float64
	TX, TY          float64
	ErrorCorrection ErrorCorrection
	Overlap         bool
}

// bufferLen returns width*height*channels, or false if the product
// overflows int.
func bufferLen(width, height, channels int) (int, bool) {
	n := 1
	for _, d := range [...]int{width, height, channels} {
		if d <= 0 || n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// Rasterize fills out with the distance field of s. out must hold at least
// Width*Height*Mode.Channels() values. Distances are mapped as
// d/RangeEm + 0.5, so values above 0.5 are inside the shape.
func Rasterize(s *Shape, r Raster, out []float32) error {
	if r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidRaster
	}
	if r.Scale <= 0 || r.RangeEm <= 0 || math.IsNaN(r.Scale) || math.IsNaN(r.RangeEm) {
		return ErrInvalidRaster
	}
	n, ok := bufferLen(r.Width, r.Height, r.Mode.Channels())
	if !ok {
		return ErrInvalidRaster
	}
	if len(out) < n {
		return ErrBufferTooSmall
	}

	if s.IsEmpty() {
		clear(out[:n])
		return nil
	}

	p := prepare(s, r)

	var wg sync.WaitGroup
	numWorkers := 4
	rowsPerWorker := (r.Height + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, r.Height)
		if startRow >= endRow {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			p.processRows(out, start, end)
		}(startRow, endRow)
	}
	wg.Wait()

	if r.ErrorCorrection != CorrectionDisabled && r.Mode.Channels() >= 3 {
		correctErrors(out, r)
	}
	return nil
}

// prepared caches per-raster data shared by all workers.
type prepared struct {
	shape    *Shape
	raster   Raster
	windings []int
	fallback [3]bool // channel has no edges of its color
}

func prepare(s *Shape, r Raster) *prepared {
	p := &prepared{shape: s, raster: r}
	var seen EdgeColor
	for _, c := range s.Contours {
		for i := range c.Edges {
			seen |= c.Edges[i].Color
		}
	}
	p.fallback = [3]bool{!seen.HasRed(), !seen.HasGreen(), !seen.HasBlue()}
	if r.Overlap {
		p.windings = make([]int, len(s.Contours))
		for i, c := range s.Contours {
			p.windings[i] = c.Winding()
		}
	}
	return p
}

func (p *prepared) processRows(out []float32, startRow, endRow int) {
	r := p.raster
	channels := r.Mode.Channels()
	for y := startRow; y < endRow; y++ {
		for x := 0; x < r.Width; x++ {
			pt := Point{
				X: (float64(x)+0.5)/r.Scale - r.TX,
				Y: (float64(y)+0.5)/r.Scale - r.TY,
			}

			var d pixelDistance
			if r.Overlap {
				d = p.overlappingDistance(pt)
			} else {
				sel := newSelector()
				for _, c := range p.shape.Contours {
					sel.addContour(c, pt)
				}
				d = sel.distance(pt, p.fallback)
			}

			offset := (y*r.Width + x) * channels
			switch r.Mode {
			case ModeSDF:
				out[offset] = mapDistance(d.trueDist, r.RangeEm)
			case ModePSDF:
				out[offset] = mapDistance(d.pseudo, r.RangeEm)
			case ModeMSDF:
				out[offset] = mapDistance(d.r, r.RangeEm)
				out[offset+1] = mapDistance(d.g, r.RangeEm)
				out[offset+2] = mapDistance(d.b, r.RangeEm)
			case ModeMTSDF:
				out[offset] = mapDistance(d.r, r.RangeEm)
				out[offset+1] = mapDistance(d.g, r.RangeEm)
				out[offset+2] = mapDistance(d.b, r.RangeEm)
				out[offset+3] = mapDistance(d.trueDist, r.RangeEm)
			}
		}
	}
}

func mapDistance(d, rangeEm float64) float32 {
	return float32(d/rangeEm + 0.5)
}

// pixelDistance holds every distance flavor computed for one sample point.
type pixelDistance struct {
	trueDist float64
	pseudo   float64
	r, g, b  float64
}

// resolve reduces the distance to the scalar used for inside/outside tests.
func (d pixelDistance) resolve(multi bool) float64 {
	if multi {
		return median(d.r, d.g, d.b)
	}
	return d.pseudo
}

// candidate is the closest edge found so far for one selector slot.
type candidate struct {
	sd    SignedDistance
	edge  *Edge
	param float64
}

func (c *candidate) offer(sd SignedDistance, e *Edge, param float64) {
	if c.edge == nil || sd.IsCloserThan(c.sd) {
		c.sd, c.edge, c.param = sd, e, param
	}
}

func (c *candidate) pseudo(p Point) float64 {
	if c.edge == nil {
		return -math.MaxFloat64
	}
	return c.edge.PseudoDistance(c.sd, p, c.param).Distance
}

// selector tracks the closest edge overall and per color channel.
type selector struct {
	all     candidate
	r, g, b candidate
}

func newSelector() selector {
	return selector{}
}

func (s *selector) addContour(c *Contour, p Point) {
	for i := range c.Edges {
		e := &c.Edges[i]
		sd, param := e.SignedDistance(p)
		s.all.offer(sd, e, param)
		if e.Color.HasRed() {
			s.r.offer(sd, e, param)
		}
		if e.Color.HasGreen() {
			s.g.offer(sd, e, param)
		}
		if e.Color.HasBlue() {
			s.b.offer(sd, e, param)
		}
	}
}

func (s *selector) merge(o *selector) {
	if o.all.edge != nil {
		s.all.offer(o.all.sd, o.all.edge, o.all.param)
	}
	if o.r.edge != nil {
		s.r.offer(o.r.sd, o.r.edge, o.r.param)
	}
	if o.g.edge != nil {
		s.g.offer(o.g.sd, o.g.edge, o.g.param)
	}
	if o.b.edge != nil {
		s.b.offer(o.b.sd, o.b.edge, o.b.param)
	}
}

func (s *selector) distance(p Point, fallback [3]bool) pixelDistance {
	d := pixelDistance{
		trueDist: -math.MaxFloat64,
		pseudo:   s.all.pseudo(p),
		r:        s.r.pseudo(p),
		g:        s.g.pseudo(p),
		b:        s.b.pseudo(p),
	}
	if s.all.edge != nil {
		d.trueDist = s.all.sd.Distance
	}
	if fallback[0] {
		d.r = d.pseudo
	}
	if fallback[1] {
		d.g = d.pseudo
	}
	if fallback[2] {
		d.b = d.pseudo
	}
	return d
}

// overlappingDistance combines per-contour distances by winding so that
// contours overlapping each other do not produce interior edges.
func (p *prepared) overlappingDistance(pt Point) pixelDistance {
	multi := p.raster.Mode.Channels() >= 3
	contours := p.shape.Contours

	selectors := make([]selector, len(contours))
	var shapeSel, innerSel, outerSel selector
	for i, c := range contours {
		selectors[i].addContour(c, pt)
		d := selectors[i].distance(pt, p.fallback).resolve(multi)
		shapeSel.merge(&selectors[i])
		if p.windings[i] > 0 && d >= 0 {
			innerSel.merge(&selectors[i])
		}
		if p.windings[i] < 0 && d <= 0 {
			outerSel.merge(&selectors[i])
		}
	}

	shapeDist := shapeSel.distance(pt, p.fallback)
	innerDist := innerSel.distance(pt, p.fallback)
	outerDist := outerSel.distance(pt, p.fallback)
	inner := innerDist.resolve(multi)
	outer := outerDist.resolve(multi)

	var result pixelDistance
	winding := 0
	switch {
	case inner >= 0 && math.Abs(inner) <= math.Abs(outer):
		result = innerDist
		winding = 1
		for i := range contours {
			if p.windings[i] > 0 {
				cd := selectors[i].distance(pt, p.fallback)
				v := cd.resolve(multi)
				if math.Abs(v) < math.Abs(outer) && v > result.resolve(multi) {
					result = cd
				}
			}
		}
	case outer <= 0 && math.Abs(outer) < math.Abs(inner):
		result = outerDist
		winding = -1
		for i := range contours {
			if p.windings[i] < 0 {
				cd := selectors[i].distance(pt, p.fallback)
				v := cd.resolve(multi)
				if math.Abs(v) < math.Abs(inner) && v < result.resolve(multi) {
					result = cd
				}
			}
		}
	default:
		return shapeDist
	}

	for i := range contours {
		if p.windings[i] == winding {
			continue
		}
		cd := selectors[i].distance(pt, p.fallback)
		v := cd.resolve(multi)
		rv := result.resolve(multi)
		if v*rv >= 0 && math.Abs(v) < math.Abs(rv) {
			result = cd
		}
	}
	if result.resolve(multi) == shapeDist.resolve(multi) {
		return shapeDist
	}
	return result
}

// correctErrors equalizes pixels whose channels clash with a neighbor,
// which shows up as artifacts when the field is interpolated. Only the
// first three channels take part; an MTSDF alpha channel is left alone.
func correctErrors(out []float32, r Raster) {
	channels := r.Mode.Channels()
	w, h := r.Width, r.Height
	threshold := float32(1.001 / (r.Scale * r.RangeEm))
	diagThreshold := threshold * float32(math.Sqrt2)

	pixel := func(x, y int) []float32 {
		i := (y*w + x) * channels
		return out[i : i+3]
	}

	flagged := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := pixel(x, y)
			clash := (x > 0 && detectClash(a, pixel(x-1, y), threshold)) ||
				(x < w-1 && detectClash(a, pixel(x+1, y), threshold)) ||
				(y > 0 && detectClash(a, pixel(x, y-1), threshold)) ||
				(y < h-1 && detectClash(a, pixel(x, y+1), threshold)) ||
				(x > 0 && y > 0 && detectClash(a, pixel(x-1, y-1), diagThreshold)) ||
				(x < w-1 && y > 0 && detectClash(a, pixel(x+1, y-1), diagThreshold)) ||
				(x > 0 && y < h-1 && detectClash(a, pixel(x-1, y+1), diagThreshold)) ||
				(x < w-1 && y < h-1 && detectClash(a, pixel(x+1, y+1), diagThreshold))
			if !clash {
				continue
			}
			onEdge := isEdgePixel(a, threshold)
			switch r.ErrorCorrection {
			case CorrectionEdgePriority:
				clash = !onEdge
			case CorrectionEdgeOnly:
				clash = onEdge
			}
			flagged[y*w+x] = clash
		}
	}

	for i, f := range flagged {
		if !f {
			continue
		}
		px := out[i*channels : i*channels+3]
		m := float32(median(float64(px[0]), float64(px[1]), float64(px[2])))
		px[0], px[1], px[2] = m, m, m
	}
}

// isEdgePixel reports whether the shape edge passes close to the pixel.
func isEdgePixel(px []float32, threshold float32) bool {
	m := float32(median(float64(px[0]), float64(px[1]), float64(px[2])))
	return abs32(m-0.5) < threshold/2
}

// detectClash reports whether pixel a clashes with its neighbor b: two
// channels change by at least threshold, and a is the pixel farther from
// the edge of the pair.
func detectClash(a, b []float32, threshold float32) bool {
	a0, a1, a2 := a[0], a[1], a[2]
	b0, b1, b2 := b[0], b[1], b[2]
	if abs32(b0-a0) < abs32(b1-a1) {
		a0, a1 = a1, a0
		b0, b1 = b1, b0
	}
	if abs32(b1-a1) < abs32(b2-a2) {
		a1, a2 = a2, a1
		b1, b2 = b2, b1
		if abs32(b0-a0) < abs32(b1-a1) {
			a0, a1 = a1, a0
			b0, b1 = b1, b0
		}
	}
	return abs32(b1-a1) >= threshold &&
		!(b0 == b1 && b0 == b2) &&
		abs32(a2-0.5) >= abs32(b2-0.5)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
