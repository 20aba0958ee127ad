package pane

import "fmt"

// Handle addresses an Arena slot. A handle goes stale when its slot is
// removed; the zero Handle is never valid.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.Index, h.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena stores values densely by index. Freed slots are reused with a new
// generation so old handles stop resolving.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[idx]
	s.generation++
	s.value = v
	s.live = true
	a.count++

	return Handle{Index: idx, Generation: s.generation}
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if h.IsZero() || int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil
	}
	return s
}

// Get returns the value for h.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if s := a.lookup(h); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Contains reports whether h resolves.
func (a *Arena[T]) Contains(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove frees the slot for h and returns its value.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	a.free = append(a.free, h.Index)
	a.count--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// Each calls fn for every live value in index order until fn returns false.
func (a *Arena[T]) Each(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle{Index: uint32(i), Generation: s.generation}, s.value) {
			return
		}
	}
}

// Handles returns the live handles in index order.
func (a *Arena[T]) Handles() []Handle {
	hs := make([]Handle, 0, a.count)
	a.Each(func(h Handle, _ T) bool {
		hs = append(hs, h)
		return true
	})
	return hs
}
