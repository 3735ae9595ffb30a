package vector

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
)

var errInjected = errors.New("injected failure")

// ledger records the lifecycle events of the elements bound to it and
// injects failures on chosen calls.
type ledger struct {
	live     int
	inits    int
	copies   int
	moves    int
	destroys int

	failInitAt int // panic on the n-th Init, 0 for never
	failCopyAt int // panic on the n-th CopyFrom, 0 for never
}

// activeLedger binds default-constructed probes; see newLedger.
var activeLedger *ledger

func newLedger(t *testing.T) *ledger {
	t.Helper()
	lg := &ledger{}
	activeLedger = lg
	t.Cleanup(func() { activeLedger = nil })
	return lg
}

// probe is copyable and has no move of its own, so vectors relocate it by
// copying.
type probe struct {
	val int
	lg  *ledger
}

func (lg *ledger) probe(val int) probe {
	lg.live++
	return probe{val: val, lg: lg}
}

func (lg *ledger) probes(vals ...int) *Vector[probe] {
	v := &Vector[probe]{}
	for _, x := range vals {
		v.PushBack(lg.probe(x))
	}
	return v
}

func (p *probe) Init() {
	lg := activeLedger
	lg.inits++
	if lg.inits == lg.failInitAt {
		panic(errInjected)
	}
	lg.live++
	p.lg = lg
}

func (p *probe) CopyFrom(src *probe) {
	lg := src.lg
	lg.copies++
	if lg.copies == lg.failCopyAt {
		panic(errInjected)
	}
	if p.lg == nil {
		lg.live++
	}
	p.val, p.lg = src.val, src.lg
}

func (p *probe) Destroy() {
	if p.lg == nil {
		return
	}
	p.lg.destroys++
	p.lg.live--
}

// mover declares a move that never panics, so vectors relocate it by moving.
type mover struct {
	val int
	lg  *ledger
}

func (lg *ledger) mover(val int) mover {
	lg.live++
	return mover{val: val, lg: lg}
}

func (m *mover) CopyFrom(src *mover) {
	lg := src.lg
	lg.copies++
	if lg.copies == lg.failCopyAt {
		panic(errInjected)
	}
	if m.lg == nil {
		lg.live++
	}
	m.val, m.lg = src.val, src.lg
}

func (m *mover) MoveFrom(src *mover) {
	if src.lg != nil {
		src.lg.moves++
	}
	m.Destroy()
	*m = *src
	*src = mover{}
}

func (*mover) NoPanicMove() {}

func (m *mover) Destroy() {
	if m.lg == nil {
		return
	}
	m.lg.destroys++
	m.lg.live--
	m.lg = nil
}

// conn owns a resource and declares a move but no copy, which makes it
// move-only. Its move is not declared panic-free.
type conn struct {
	open *bool
	lg   *ledger
}

func (lg *ledger) conn() conn {
	lg.live++
	open := true
	return conn{open: &open, lg: lg}
}

func (c *conn) MoveFrom(src *conn) {
	if src.lg != nil {
		src.lg.moves++
	}
	c.Destroy()
	*c = *src
	*src = conn{}
}

func (c *conn) Destroy() {
	if c.open == nil {
		return
	}
	*c.open = false
	c.lg.destroys++
	c.lg.live--
	c.open, c.lg = nil, nil
}

// handle cannot be copied; vectors move it as a plain value.
type handle struct {
	fd int
}

func (*handle) NonCopyable() {}

// answer defaults to 42.
type answer struct {
	n int
}

func (a *answer) Init() { a.n = 42 }

func vals[T interface{ probe | mover }](v *Vector[T]) []int {
	out := make([]int, 0, v.Len())
	for x := range v.Values() {
		switch e := any(x).(type) {
		case probe:
			out = append(out, e.val)
		case mover:
			out = append(out, e.val)
		}
	}
	return out
}

// useAllocator installs a fresh default allocator for the duration of t.
func useAllocator(t *testing.T, cfg Config) *Allocator {
	t.Helper()
	a := NewAllocator(cfg, log.NewNopLogger())
	prev := SetDefaultAllocator(a)
	t.Cleanup(func() { SetDefaultAllocator(prev) })
	return a
}

// tailZeroed reports whether the slots past Len() hold zero values.
func tailZeroed[T any](v *Vector[T]) bool {
	return isZeroed(v.data.Slots(v.size, v.data.Capacity()))
}
