package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitsResolution(t *testing.T) {
	testCases := []struct {
		name           string
		moveNoPanic    bool
		relocateByMove bool
		copyable       bool
		hasInit        bool
		tr             func() (bool, bool, bool, bool)
	}{
		{
			name: "plain value", moveNoPanic: true, relocateByMove: true, copyable: true,
			tr: flags[int],
		},
		{
			name: "copier without move", moveNoPanic: false, relocateByMove: false, copyable: true, hasInit: true,
			tr: flags[probe],
		},
		{
			name: "no-panic mover", moveNoPanic: true, relocateByMove: true, copyable: true,
			tr: flags[mover],
		},
		{
			name: "mover without copier", moveNoPanic: false, relocateByMove: true, copyable: false,
			tr: flags[conn],
		},
		{
			name: "non-copyable", moveNoPanic: true, relocateByMove: true, copyable: false,
			tr: flags[handle],
		},
		{
			name: "nested vector", moveNoPanic: true, relocateByMove: true, copyable: true,
			tr: flags[Vector[int]],
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			moveNoPanic, relocateByMove, copyable, hasInit := tc.tr()
			assert.Equal(t, tc.moveNoPanic, moveNoPanic, "moveNoPanic")
			assert.Equal(t, tc.relocateByMove, relocateByMove, "relocateByMove")
			assert.Equal(t, tc.copyable, copyable, "copyable")
			assert.Equal(t, tc.hasInit, hasInit, "init")
		})
	}
}

func flags[T any]() (bool, bool, bool, bool) {
	tr := traitsFor[T]()
	return tr.moveNoPanic, tr.relocateByMove, tr.copy != nil, tr.init != nil
}

type panickyMover struct{ n int }

func (p *panickyMover) MoveFrom(src *panickyMover) { *p = *src }
func (*panickyMover) NonCopyable()                  {}

func TestTraitsMoveOnlyRelocatesByMove(t *testing.T) {
	tr := traitsFor[panickyMover]()
	assert.False(t, tr.moveNoPanic)
	assert.True(t, tr.relocateByMove, "a type that cannot be copied must be moved even if the move may panic")
}

func TestTraitsCachedPerType(t *testing.T) {
	assert.Same(t, traitsFor[probe](), traitsFor[probe]())
	assert.Same(t, traitsFor[[]string](), traitsFor[[]string]())
}

func TestPlainMoveZeroesSource(t *testing.T) {
	tr := traitsFor[[]int]()
	src := []int{1, 2}
	var dst []int
	tr.move(&dst, &src)
	assert.Equal(t, []int{1, 2}, dst)
	assert.Nil(t, src)
}

func TestFillCleansUpOnPanic(t *testing.T) {
	lg := newLedger(t)
	lg.failInitAt = 3
	tr := traitsFor[probe]()

	dst := make([]probe, 5)
	require.PanicsWithError(t, errInjected.Error(), func() { tr.initRange(dst) })
	assert.Equal(t, 0, lg.live, "constructed elements must be destroyed")
	assert.Equal(t, 2, lg.destroys)
	assert.True(t, isZeroed(dst))
}

func TestCopyRangeNotCopyable(t *testing.T) {
	tr := traitsFor[handle]()
	assert.PanicsWithError(t, "vector.handle: vector: element type is not copyable", func() {
		tr.copyRange(nil, nil)
	})
}

func TestConstructZeroesOnPanic(t *testing.T) {
	tr := traitsFor[[2]int]()
	var slot [2]int
	assert.Panics(t, func() {
		tr.construct(&slot, func(p *[2]int) {
			p[0] = 5
			panic("boom")
		})
	})
	assert.Equal(t, [2]int{}, slot)
}

func TestMoverWithoutCopierIsMoveOnly(t *testing.T) {
	tr := traitsFor[conn]()
	assert.Nil(t, tr.copy)
	assert.Nil(t, tr.assign)
	require.ErrorIs(t, capturePanic(tr.mustCopy), ErrNotCopyable)
}
