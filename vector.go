package vector

import (
	"fmt"
	"iter"
)

// Vector is a contiguous, growable sequence of T backed by one RawMemory.
// Elements [0, Len()) are live; slots [Len(), Cap()) hold zero values.
//
// The zero Vector is empty and ready to use. A Vector must not be copied by
// value: use Clone for a deep copy and Move to transfer ownership. It is not
// safe for concurrent use.
type Vector[T any] struct {
	data RawMemory[T]
	size int
	tr   *traits[T]
}

// New returns an empty vector. No memory is allocated.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// NewSized returns a vector of n default-constructed elements with capacity
// exactly n.
func NewSized[T any](n int) *Vector[T] {
	v := &Vector[T]{}
	fresh := NewRawMemory[T](n)
	defer fresh.Release()

	v.traits().initRange(fresh.Slots(0, n))
	v.data.Swap(fresh)
	v.size = n
	return v
}

// Of returns a vector holding elems, with capacity len(elems).
// Elements are handed over as plain values, without calling CopyFrom.
func Of[T any](elems ...T) *Vector[T] {
	v := &Vector[T]{}
	fresh := NewRawMemory[T](len(elems))
	defer fresh.Release()

	copy(fresh.Slots(0, len(elems)), elems)
	v.data.Swap(fresh)
	v.size = len(elems)
	return v
}

func (v *Vector[T]) traits() *traits[T] {
	if v.tr == nil {
		v.tr = traitsFor[T]()
	}
	return v.tr
}

// Clone returns a deep copy of v whose capacity equals v.Len(). If copying
// an element panics, the copies made so far are destroyed and v is
// unchanged.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{tr: v.traits()}
	fresh := NewRawMemory[T](v.size)
	defer fresh.Release()

	c.tr.copyRange(fresh.Slots(0, v.size), v.data.Slots(0, v.size))
	c.data.Swap(fresh)
	c.size = v.size
	return c
}

// Move returns a vector owning v's elements and buffer; v is left empty.
func (v *Vector[T]) Move() *Vector[T] {
	m := &Vector[T]{}
	m.Swap(v)
	return m
}

// CopyFrom makes v an element-wise copy of src.
//
// When src does not fit in v's capacity a full copy is built and swapped
// in, so a panic leaves v unchanged. Otherwise v's storage is reused: the
// common prefix is copy-assigned, then v's surplus is destroyed or src's
// surplus is copy-constructed, and a panic may leave v partially assigned.
func (v *Vector[T]) CopyFrom(src *Vector[T]) {
	if v == src {
		return
	}
	if src.size > v.data.Capacity() {
		c := src.Clone()
		v.Swap(c)
		c.Destroy()
		return
	}

	tr := v.traits()
	dst := v.data.Slots(0, v.data.Capacity())
	s := src.data.Slots(0, src.size)
	if src.size < v.size {
		tr.assignRange(dst[:src.size], s)
		tr.destroyRange(dst[src.size:v.size])
	} else {
		tr.assignRange(dst[:v.size], s[:v.size])
		tr.copyRange(dst[v.size:src.size], s[v.size:])
	}
	v.size = src.size
}

// MoveFrom move-assigns src to v by exchanging their contents; src ends up
// holding what v held. Never panics.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.Swap(src)
}

// NoPanicMove marks MoveFrom as never panicking, so nested vectors are
// relocated by moving.
func (*Vector[T]) NoPanicMove() {}

// Swap exchanges the contents of v and other in O(1).
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.data.Swap(&other.data)
	v.size, other.size = other.size, v.size
	v.tr, other.tr = other.tr, v.tr
}

// Destroy destroys every element in reverse order and releases the buffer.
// v is empty afterwards and may be reused.
func (v *Vector[T]) Destroy() {
	v.traits().destroyRange(v.data.Slots(0, v.size))
	v.size = 0
	v.data.Release()
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the number of elements v can hold without reallocating.
func (v *Vector[T]) Cap() int {
	return v.data.Capacity()
}

// At returns a pointer to element i. The pointer is invalidated by any
// reallocation. i is checked in vectordebug builds only.
func (v *Vector[T]) At(i int) *T {
	precondition(i >= 0 && i < v.size, "index out of range")
	return v.data.At(i)
}

// Get returns element i as a plain value.
func (v *Vector[T]) Get(i int) T {
	return *v.At(i)
}

// Set move-assigns value into element i.
func (v *Vector[T]) Set(i int, value T) {
	v.traits().moveAssign(v.At(i), &value)
}

// Front returns a pointer to the first element.
func (v *Vector[T]) Front() *T {
	return v.At(0)
}

// Back returns a pointer to the last element.
func (v *Vector[T]) Back() *T {
	return v.At(v.size - 1)
}

// Slice returns the live elements as a slice aliasing v's buffer. Its
// capacity is clipped to Len(), so appending to it never writes into v.
func (v *Vector[T]) Slice() []T {
	return v.data.Slots(0, v.size)
}

// All iterates over positions and pointers to the live elements.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.data.At(i)) {
				return
			}
		}
	}
}

// Values iterates over the live elements by value.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(*v.data.At(i)) {
				return
			}
		}
	}
}

func (v *Vector[T]) String() string {
	return fmt.Sprint(v.Slice())
}
