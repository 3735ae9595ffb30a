package vector

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// Element types opt into lifecycle hooks by implementing any of the
// interfaces below on their pointer type. A type implementing none of them
// is treated as a plain value: the zero value is its default, copies and
// moves are assignments, and a move leaves the source zeroed.
//
// Hooks other than Destroy may panic. The container never recovers such a
// panic; it only cleans up the slots it was working on and lets the panic
// continue.

// Initializer default-constructs an element whose default is not the zero
// value. Init is called on a zeroed slot.
type Initializer interface {
	Init()
}

// Copier copy-constructs (receiver zeroed) and copy-assigns (receiver live)
// from src. src must not be modified.
type Copier[T any] interface {
	CopyFrom(src *T)
}

// Mover move-constructs (receiver zeroed) and move-assigns (receiver live)
// from src. src must be left in a state Destroy accepts.
//
// Reallocation only relocates elements by moving when the move cannot panic,
// which a Mover declares by also implementing NoPanicMover. Otherwise
// copyable elements are relocated by copying, so a failure leaves the
// original buffer intact.
type Mover[T any] interface {
	MoveFrom(src *T)
}

// NoPanicMover marks a Mover whose MoveFrom never panics.
type NoPanicMover interface {
	NoPanicMove()
}

// Destroyer releases the resources of an element. Destroy must not panic and
// must accept a zero or moved-from value.
type Destroyer interface {
	Destroy()
}

// NonCopyable marks an element type that cannot be copied. Vectors of such
// types panic with ErrNotCopyable on Clone, CopyFrom and InsertCopy, and
// always relocate by moving. A Mover without a Copier is treated the same
// way.
type NonCopyable interface {
	NonCopyable()
}

// traits is the lifecycle table of an element type.
type traits[T any] struct {
	init       func(p *T)        // nil: the zero value is the default
	copy       func(dst, src *T) // nil: not copyable
	assign     func(dst, src *T) // nil: not copyable
	move       func(dst, src *T)
	moveAssign func(dst, src *T)
	destroy    func(p *T)

	moveNoPanic bool
	// relocateByMove selects moving over copying when reallocating.
	relocateByMove bool
}

var traitsCache sync.Map // reflect.Type -> *traits[T]

// traitsFor returns the lifecycle table of T, resolving it once per type.
func traitsFor[T any]() *traits[T] {
	key := reflect.TypeFor[T]()
	if tr, ok := traitsCache.Load(key); ok {
		return tr.(*traits[T])
	}
	tr, _ := traitsCache.LoadOrStore(key, resolveTraits[T]())
	return tr.(*traits[T])
}

func resolveTraits[T any]() *traits[T] {
	probe := any(new(T))
	_, hasInit := probe.(Initializer)
	_, hasCopier := probe.(Copier[T])
	_, hasMover := probe.(Mover[T])
	_, noPanicMove := probe.(NoPanicMover)
	_, hasDestroy := probe.(Destroyer)
	_, nonCopyable := probe.(NonCopyable)
	if nonCopyable {
		hasCopier = false
	}

	tr := &traits[T]{}

	if hasInit {
		tr.init = func(p *T) { any(p).(Initializer).Init() }
	}

	if hasDestroy {
		tr.destroy = func(p *T) {
			any(p).(Destroyer).Destroy()
			var zero T
			*p = zero
		}
	} else {
		tr.destroy = func(p *T) {
			var zero T
			*p = zero
		}
	}

	switch {
	case nonCopyable:
	case hasMover && !hasCopier:
		// Declaring a move without a copy makes the type move-only.
	case hasCopier:
		tr.copy = func(dst, src *T) { any(dst).(Copier[T]).CopyFrom(src) }
		tr.assign = tr.copy
	default:
		tr.copy = func(dst, src *T) { *dst = *src }
		tr.assign = func(dst, src *T) {
			if hasDestroy {
				tr.destroy(dst)
			}
			*dst = *src
		}
	}

	switch {
	case hasMover:
		tr.move = func(dst, src *T) { any(dst).(Mover[T]).MoveFrom(src) }
		tr.moveAssign = tr.move
		tr.moveNoPanic = noPanicMove
	case hasCopier:
		// Without a move of its own the type moves by copying; the source
		// keeps its value and is destroyed later by its owner.
		tr.move = tr.copy
		tr.moveAssign = tr.assign
	default:
		tr.move = func(dst, src *T) {
			var zero T
			*dst = *src
			*src = zero
		}
		tr.moveAssign = func(dst, src *T) {
			if hasDestroy {
				tr.destroy(dst)
			}
			tr.move(dst, src)
		}
		tr.moveNoPanic = true
	}

	tr.relocateByMove = tr.moveNoPanic || tr.copy == nil
	return tr
}

// mustCopy panics with ErrNotCopyable for non-copyable element types.
func (tr *traits[T]) mustCopy() {
	if tr.copy == nil {
		panic(errors.Wrapf(ErrNotCopyable, "%s", reflect.TypeFor[T]()))
	}
}

// construct builds an element in the zeroed slot p with fn, or default
// constructs it when fn is nil. A panicking fn leaves p zeroed.
func (tr *traits[T]) construct(p *T, fn func(*T)) {
	if fn == nil {
		if tr.init == nil {
			return
		}
		fn = tr.init
	}
	ok := false
	defer func() {
		if !ok {
			var zero T
			*p = zero
		}
	}()
	fn(p)
	ok = true
}

// initRange default-constructs every slot of dst. On panic the elements
// already built are destroyed in reverse and dst is left zeroed.
func (tr *traits[T]) initRange(dst []T) {
	if tr.init == nil {
		return
	}
	tr.fill(dst, func(i int) { tr.init(&dst[i]) })
}

// copyRange copy-constructs src into the zeroed slots of dst.
func (tr *traits[T]) copyRange(dst, src []T) {
	tr.mustCopy()
	tr.fill(dst[:len(src)], func(i int) { tr.copy(&dst[i], &src[i]) })
}

// moveRange move-constructs src into the zeroed slots of dst.
func (tr *traits[T]) moveRange(dst, src []T) {
	tr.fill(dst[:len(src)], func(i int) { tr.move(&dst[i], &src[i]) })
}

// relocate transfers src into dst by moving when that cannot fail, or when
// T cannot be copied, and by copying otherwise. When copying, src is
// untouched if a copy panics.
func (tr *traits[T]) relocate(dst, src []T) {
	if tr.relocateByMove {
		tr.moveRange(dst, src)
		return
	}
	tr.copyRange(dst, src)
}

// assignRange copy-assigns src onto the live elements of dst.
func (tr *traits[T]) assignRange(dst, src []T) {
	tr.mustCopy()
	for i := range src {
		tr.assign(&dst[i], &src[i])
	}
}

// destroyRange destroys s in reverse order and leaves it zeroed.
func (tr *traits[T]) destroyRange(s []T) {
	for i := len(s) - 1; i >= 0; i-- {
		tr.destroy(&s[i])
	}
}

func (tr *traits[T]) fill(dst []T, build func(i int)) {
	done := 0
	defer func() {
		if done < len(dst) {
			tr.destroyRange(dst[:done])
			clear(dst[done:])
		}
	}()
	for i := range dst {
		build(i)
		done++
	}
}
