package atlas

import "image"

// ShelfAllocator packs rectangles into horizontal shelves.
//
// Items are placed left to right on the first shelf that has room. A
// shelf is as tall as the tallest item placed on it; only the last
// shelf may grow. When no shelf has room a new one is opened above the
// last. Glyphs of one font have similar heights, which keeps the waste
// per shelf small.
type ShelfAllocator struct {
	width, height int
	gap           int // empty pixels between neighbors
	shelves       []shelf
	used          int
}

type shelf struct {
	y, height int
	next      int // first free x
}

// NewShelfAllocator creates an allocator for a width x height area that
// keeps gap pixels between allocated rectangles.
func NewShelfAllocator(width, height, gap int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		gap:     max(gap, 0),
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate reserves a w x h rectangle. It reports false when the area
// has no room left for it.
func (a *ShelfAllocator) Allocate(w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	if i, ok := a.find(w, h); ok {
		s := &a.shelves[i]
		if h > s.height {
			s.height = h
		}
		r := image.Rect(s.next, s.y, s.next+w, s.y+h)
		s.next += w + a.gap
		a.used += w * h
		return r, true
	}

	y := a.top()
	if y+h > a.height || w > a.width {
		return image.Rectangle{}, false
	}
	a.shelves = append(a.shelves, shelf{y: y, height: h, next: w + a.gap})
	a.used += w * h
	return image.Rect(0, y, w, y+h), true
}

// CanFit reports whether Allocate(w, h) would succeed.
func (a *ShelfAllocator) CanFit(w, h int) bool {
	if w <= 0 || h <= 0 || w > a.width || h > a.height {
		return false
	}
	if _, ok := a.find(w, h); ok {
		return true
	}
	return a.top()+h <= a.height
}

// find returns the first shelf that can take a w x h item.
func (a *ShelfAllocator) find(w, h int) (int, bool) {
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.next+w > a.width {
			continue
		}
		if h <= s.height {
			return i, true
		}
		// Only the last shelf can grow, and only into free space.
		if i == len(a.shelves)-1 && s.y+h <= a.height {
			return i, true
		}
	}
	return 0, false
}

// top returns the y of the next shelf.
func (a *ShelfAllocator) top() int {
	if len(a.shelves) == 0 {
		return 0
	}
	last := a.shelves[len(a.shelves)-1]
	return last.y + last.height + a.gap
}

// Reset clears all allocations.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.used = 0
}

// Utilization returns the fraction of the area covered by allocations.
func (a *ShelfAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.used) / float64(a.width*a.height)
}

// ShelfCount returns the number of open shelves.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}
