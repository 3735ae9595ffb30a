// Package vector implements a growable, contiguous array on top of an
// explicitly owned raw storage buffer.
//
// # Overview
//
// Two types cooperate:
//
//   - RawMemory owns a region with room for a fixed number of elements. It
//     never constructs or destroys anything; it only hands out slots and
//     returns the region to the allocator on Release.
//   - Vector owns one RawMemory plus a count of live elements and layers
//     construction, destruction, the growth policy and positional insert and
//     erase on top of it.
//
// # Basic Usage
//
//	var v vector.Vector[int] // the zero Vector is empty and allocates nothing
//	defer v.Destroy()
//
//	for i := 1; i <= 5; i++ {
//		v.PushBack(i) // capacity 1, 2, 4, 8
//	}
//	v.Insert(2, 99) // [1 2 99 3 4 5]
//	v.Erase(0)      // [2 99 3 4 5]
//	v.Resize(2)     // [2 99], capacity unchanged
//
// # Element Lifecycle
//
// Plain Go values need nothing. Types that own resources implement any of
// Initializer, Copier, Mover, NoPanicMover, Destroyer and NonCopyable on
// their pointer type. The hooks are resolved once per element type.
//
// When the buffer grows, elements are relocated by moving if their move is
// declared never to panic (or if they cannot be copied at all), and by
// copying otherwise.
//
// # Failure Guarantees
//
// A panic raised by an element hook is never recovered by this package; it
// propagates out of the operation after the container has cleaned up the
// slots it was building. What is left behind depends on the path:
//
//   - Reallocating paths (growth in Emplace, Insert and PushBack, Reserve,
//     ShrinkToFit, Clone, CopyFrom into a smaller buffer) leave the vector
//     exactly as it was.
//   - In-place paths (Emplace with spare capacity, Erase, CopyFrom into an
//     existing buffer) leave the vector valid: nothing leaks and nothing is
//     destroyed twice, but an element whose assignment panicked may be left
//     half updated. These paths require that move-assignment does not panic.
//
// Allocation failures panic with an error wrapping ErrOutOfMemory or
// ErrCapacityOverflow before any element is touched.
//
// # Preconditions
//
// Positions and indexes are not range checked. Build with the vectordebug
// tag to turn precondition violations into panics:
//
//	go test -tags vectordebug ./...
//
// # Allocation
//
// All buffers come from a single global Allocator. It accounts for the
// bytes held by live buffers, enforces an optional limit and logs through
// go-kit log:
//
//	cfg, err := vector.ConfigFromEnv() // VECTOR_MAX_BYTES, VECTOR_LOG_LEVEL
//	if err != nil {
//		return err
//	}
//	vector.SetDefaultAllocator(vector.NewAllocator(cfg, logger))
//	prometheus.MustRegister(vector.NewCollector(vector.DefaultAllocator()))
//
// # Thread Safety
//
// A Vector is owned by one goroutine at a time; share it only behind your
// own synchronization. The Allocator is safe for concurrent use.
package vector
