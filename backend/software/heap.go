package software

import (
	"math"
	"sync"

	"github.com/gogpu/glyphfield/backend"
)

// heapAlign is the alignment of every allocation.
const heapAlign = 8

// heap is the backend memory region. Each allocation is a separately
// owned byte slice addressed by a monotonically increasing offset, so a
// freed pointer is never handed out again.
type heap struct {
	mu     sync.Mutex
	next   uint64
	blocks map[backend.Ptr][]byte
	used   int
	limit  int // 0 means unlimited
}

func newHeap(limit int) *heap {
	return &heap{
		next:   heapAlign,
		blocks: make(map[backend.Ptr][]byte),
		limit:  limit,
	}
}

// malloc returns a zeroed block of size bytes, or the null pointer if the
// request is negative, exceeds the limit or exhausts the address space.
func (h *heap) malloc(size int) backend.Ptr {
	if size < 0 {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit > 0 && h.used+size > h.limit {
		return 0
	}
	span := uint64(max(size, 1)+heapAlign-1) &^ (heapAlign - 1)
	if h.next+span > math.MaxUint32 {
		return 0
	}
	p := backend.Ptr(h.next)
	h.next += span
	h.blocks[p] = make([]byte, size)
	h.used += size
	return p
}

// free releases the block at p. It reports false for unknown pointers.
func (h *heap) free(p backend.Ptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.blocks[p]
	if !ok {
		return false
	}
	h.used -= len(b)
	delete(h.blocks, p)
	return true
}

// view returns size bytes starting at p. p may point inside a block;
// the range must not cross the end of that block.
func (h *heap) view(p backend.Ptr, size int) []byte {
	if p == 0 || size < 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.blocks[p]; ok {
		if size > len(b) {
			return nil
		}
		return b[:size:size]
	}
	for base, b := range h.blocks {
		if p < base || uint64(p) >= uint64(base)+uint64(len(b)) {
			continue
		}
		off := int(p - base)
		if off+size > len(b) {
			return nil
		}
		return b[off : off+size : off+size]
	}
	return nil
}

// live returns the number of outstanding blocks and their total size.
func (h *heap) live() (blocks, bytes int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks), h.used
}
