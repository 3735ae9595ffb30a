package vector

import "github.com/pkg/errors"

// growCap returns the capacity after a full buffer of capacity c grows.
func growCap(c int) int {
	if c > maxInt/2 {
		panic(errors.Wrapf(ErrCapacityOverflow, "cannot grow capacity %d", c))
	}
	return max(1, 2*c)
}

// Emplace constructs a new element at pos, shifting [pos, Len()) one slot
// right, and returns pos. init receives the zeroed slot; a nil init
// default-constructs. pos must be in [0, Len()].
//
// When v is full the buffer doubles (minimum 1). The new element is built in
// its final slot of the new buffer first and the old elements are relocated
// around it; if anything panics the new buffer is discarded and v is
// unchanged.
//
// When v has spare capacity the elements are shifted in place with
// move-assignment, which must not panic. If init panics the shift is undone.
func (v *Vector[T]) Emplace(pos int, init func(p *T)) int {
	precondition(pos >= 0 && pos <= v.size, "emplace position out of range")
	if v.size == v.data.Capacity() {
		v.emplaceRealloc(pos, init)
	} else {
		v.emplaceInPlace(pos, init)
	}
	v.size++
	return pos
}

func (v *Vector[T]) emplaceRealloc(pos int, init func(*T)) {
	tr := v.traits()
	fresh := NewRawMemory[T](growCap(v.data.Capacity()))
	defer fresh.Release()

	dst := fresh.Slots(0, v.size+1)
	old := v.data.Slots(0, v.size)

	tr.construct(&dst[pos], init)
	relocated := 0 // 1: prefix, 2: prefix and suffix
	defer func() {
		if relocated == 2 {
			return
		}
		if relocated == 1 {
			tr.destroyRange(dst[:pos])
		}
		tr.destroy(&dst[pos])
	}()
	tr.relocate(dst[:pos], old[:pos])
	relocated = 1
	tr.relocate(dst[pos+1:], old[pos:])
	relocated = 2

	tr.destroyRange(old)
	v.data.Swap(fresh)
}

func (v *Vector[T]) emplaceInPlace(pos int, init func(*T)) {
	tr := v.traits()
	s := v.data.Slots(0, v.size+1)
	last := v.size
	if pos == last {
		tr.construct(&s[pos], init)
		return
	}

	tr.construct(&s[last], func(p *T) { tr.move(p, &s[last-1]) })
	shifted := false
	func() {
		defer func() {
			if !shifted {
				tr.destroy(&s[last])
			}
		}()
		for i := last - 1; i > pos; i-- {
			tr.moveAssign(&s[i], &s[i-1])
		}
		shifted = true
	}()
	tr.destroy(&s[pos])

	built := false
	defer func() {
		if built {
			return
		}
		for i := pos; i < last; i++ {
			tr.moveAssign(&s[i], &s[i+1])
		}
		tr.destroy(&s[last])
	}()
	tr.construct(&s[pos], init)
	built = true
}

// Insert hands value over to a new element at pos and returns pos. The
// vector takes ownership of value as a plain Go value: no hook runs on it.
func (v *Vector[T]) Insert(pos int, value T) int {
	return v.Emplace(pos, func(p *T) { *p = value })
}

// InsertCopy copy-constructs a new element at pos from *src and returns pos.
// src may point into v.
func (v *Vector[T]) InsertCopy(pos int, src *T) int {
	tr := v.traits()
	tr.mustCopy()
	if v.size < v.data.Capacity() && pos < v.size {
		// The shift may move *src, so copy it out of the buffer first.
		tmp := new(T)
		tr.construct(tmp, func(p *T) { tr.copy(p, src) })
		defer tr.destroy(tmp)
		return v.Emplace(pos, func(p *T) { tr.move(p, tmp) })
	}
	return v.Emplace(pos, func(p *T) { tr.copy(p, src) })
}

// PushBack appends value.
func (v *Vector[T]) PushBack(value T) {
	v.Insert(v.size, value)
}

// EmplaceBack appends an element built by init (default-constructed when
// init is nil) and returns a pointer to it.
func (v *Vector[T]) EmplaceBack(init func(p *T)) *T {
	return v.At(v.Emplace(v.size, init))
}

// PopBack destroys the last element. It is a no-op on an empty vector.
func (v *Vector[T]) PopBack() {
	if v.size == 0 {
		return
	}
	v.traits().destroy(v.data.At(v.size - 1))
	v.size--
}

// Erase removes the element at pos, shifting the following elements one
// slot left, and returns pos. pos must be in [0, Len()).
//
// The shift uses move-assignment, which must not panic; no rollback is
// attempted if it does.
func (v *Vector[T]) Erase(pos int) int {
	precondition(pos >= 0 && pos < v.size, "erase position out of range")
	return v.EraseRange(pos, pos+1)
}

// EraseRange removes the elements [first, last) and returns first.
func (v *Vector[T]) EraseRange(first, last int) int {
	precondition(first >= 0 && first <= last && last <= v.size, "erase range out of bounds")
	if first == last {
		return first
	}
	tr := v.traits()
	s := v.data.Slots(0, v.size)
	n := shiftLeft(tr, s[first:], last-first)
	tr.destroyRange(s[first+n:])
	v.size = first + n
	return first
}

// shiftLeft move-assigns s[k:] onto s[:len(s)-k] front to back and returns
// the number of elements moved.
func shiftLeft[T any](tr *traits[T], s []T, k int) int {
	n := len(s) - k
	for i := 0; i < n; i++ {
		tr.moveAssign(&s[i], &s[i+k])
	}
	return n
}

// Reserve grows the capacity to at least n. It does nothing when n does not
// exceed Cap(). Elements are relocated by moving when their move cannot
// panic and by copying otherwise; a panic leaves v unchanged.
func (v *Vector[T]) Reserve(n int) {
	if n <= v.data.Capacity() {
		return
	}
	v.reallocate(n)
}

// ShrinkToFit reallocates the buffer to exactly Len() slots, with the same
// failure behavior as Reserve.
func (v *Vector[T]) ShrinkToFit() {
	if v.data.Capacity() == v.size {
		return
	}
	v.reallocate(v.size)
}

func (v *Vector[T]) reallocate(n int) {
	tr := v.traits()
	fresh := NewRawMemory[T](n)
	defer fresh.Release()

	old := v.data.Slots(0, v.size)
	tr.relocate(fresh.Slots(0, v.size), old)
	tr.destroyRange(old)
	v.data.Swap(fresh)
}

// Resize changes the length to n. Growing reserves exactly n and
// default-constructs the new tail; shrinking destroys the surplus tail.
// Surviving elements are untouched.
func (v *Vector[T]) Resize(n int) {
	precondition(n >= 0, "negative size")
	tr := v.traits()
	if n > v.size {
		v.Reserve(n)
		tr.initRange(v.data.Slots(v.size, n))
	} else {
		tr.destroyRange(v.data.Slots(n, v.size))
	}
	v.size = n
}

// Clear destroys every element and keeps the capacity.
func (v *Vector[T]) Clear() {
	v.Resize(0)
}
