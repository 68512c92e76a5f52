package glyphfield

import (
	"github.com/gogpu/glyphfield/backend"
)

// scope tracks backend resources acquired during one generation and
// releases them in reverse acquisition order.
//
// Usage:
//
//	sc := newScope(b)
//	defer sc.release()
//	ptr, err := sc.malloc(8)
type scope struct {
	b        backend.Backend
	releases []func()
}

func newScope(b backend.Backend) *scope {
	return &scope{b: b}
}

// shape creates a shape handle owned by the scope.
func (s *scope) shape() (backend.ShapeHandle, error) {
	h := s.b.ShapeCreate()
	if h == 0 {
		return 0, ErrAllocationFailed
	}
	s.releases = append(s.releases, func() { s.b.ShapeFree(h) })
	return h, nil
}

// malloc allocates size bytes owned by the scope.
func (s *scope) malloc(size int) (backend.Ptr, error) {
	p := s.b.Malloc(size)
	if p == 0 {
		Logger().Warn("glyphfield: backend allocation failed", "size", size)
		return 0, ErrAllocationFailed
	}
	s.releases = append(s.releases, func() { s.b.Free(p) })
	return p, nil
}

// release frees everything acquired so far, newest first.
// It is safe to call more than once.
func (s *scope) release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}
