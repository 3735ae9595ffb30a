package vector

import (
	"runtime"
	"unsafe"
)

// noCopy makes go vet's copylocks check report copies of the struct
// embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RawMemory owns a region with room for a fixed number of elements of T.
// It never constructs or destroys elements: every slot it hands out holds the
// zero value until the owner constructs something there, and the owner must
// destroy whatever it constructed before calling Release.
//
// RawMemory must not be copied. Ownership moves with MoveFrom or Swap.
type RawMemory[T any] struct {
	_       noCopy
	buf     []T
	size    int64
	alloc   *Allocator
	cleanup runtime.Cleanup
}

// NewRawMemory allocates room for capacity elements from the default
// allocator. A zero capacity performs no allocation, and regions of
// zero-sized elements are not accounted.
//
// Panics with ErrCapacityOverflow or ErrOutOfMemory if the request cannot be
// satisfied.
func NewRawMemory[T any](capacity int) *RawMemory[T] {
	r := &RawMemory[T]{}
	a := DefaultAllocator()
	buf, size := allocate[T](a, capacity)
	if buf == nil {
		return r
	}
	r.buf, r.size = buf, size
	if size > 0 {
		r.alloc = a
		// Give the bytes back if the owner drops the region without Release.
		r.cleanup = runtime.AddCleanup(&buf[0], a.release, size)
	}
	return r
}

// Capacity returns the number of element slots in the region.
func (r *RawMemory[T]) Capacity() int {
	return len(r.buf)
}

// Address returns the first slot, or nil for an empty region.
func (r *RawMemory[T]) Address() *T {
	if r.buf == nil {
		return nil
	}
	return &r.buf[0]
}

// At returns slot i. The bound is asserted in vectordebug builds only.
func (r *RawMemory[T]) At(i int) *T {
	precondition(i >= 0 && i < len(r.buf), "raw memory index out of range")
	return &r.buf[i]
}

// Slots returns the slots [from, to) as a slice aliasing the region.
func (r *RawMemory[T]) Slots(from, to int) []T {
	precondition(from >= 0 && from <= to && to <= len(r.buf), "raw memory range out of bounds")
	return r.buf[from:to:to]
}

// Swap exchanges the regions of r and other without touching any element.
func (r *RawMemory[T]) Swap(other *RawMemory[T]) {
	r.buf, other.buf = other.buf, r.buf
	r.size, other.size = other.size, r.size
	r.alloc, other.alloc = other.alloc, r.alloc
	r.cleanup, other.cleanup = other.cleanup, r.cleanup
}

// MoveFrom releases r's own region and takes over src's, leaving src empty.
func (r *RawMemory[T]) MoveFrom(src *RawMemory[T]) {
	if r == src {
		return
	}
	r.Release()
	r.Swap(src)
}

// Release returns the region to its allocator and leaves r empty.
// Any element constructed in the region must already have been destroyed.
func (r *RawMemory[T]) Release() {
	if r.buf == nil {
		return
	}
	if debug {
		precondition(isZeroed(r.buf), "release of raw memory holding live elements")
	}
	if r.alloc != nil {
		r.cleanup.Stop()
		r.alloc.release(r.size)
	}
	r.buf, r.size, r.alloc = nil, 0, nil
	r.cleanup = runtime.Cleanup{}
}

// isZeroed reports whether every byte backing s is zero.
func isZeroed[T any](s []T) bool {
	var zero T
	n := len(s) * int(unsafe.Sizeof(zero))
	if n == 0 {
		return true
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n)
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
